// Command seed loads a catalog and address book from a YAML file into the
// configured MongoDB database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/config"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
)

type seedAddress struct {
	UserID     string `yaml:"user_id"`
	IsDefault  bool   `yaml:"default"`
	FullName   string `yaml:"full_name"`
	Phone      string `yaml:"phone"`
	Line1      string `yaml:"line1"`
	Line2      string `yaml:"line2"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	PostalCode string `yaml:"postal_code"`
	Country    string `yaml:"country"`
}

type seedFile struct {
	Products  []service.CreateProductInput `yaml:"products"`
	Addresses []seedAddress                `yaml:"addresses"`
}

func (a seedAddress) toDomain() domain.Address {
	return domain.Address{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func loadSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &seed, nil
}

func main() {
	file := flag.String("file", "seed.yaml", "seed file")
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Setup("storefront-seed", cfg.App.LogLevel, true)

	seed, err := loadSeed(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load seed file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	if err := repository.CreateIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	catalog := service.NewCatalogService(repository.NewMongoProductRepository(db))
	created, skipped := 0, 0
	for _, in := range seed.Products {
		product, err := catalog.CreateProduct(ctx, in)
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Warn().Str("product", in.Name).Err(err).Msg("skipping product")
			skipped++
		case err != nil:
			log.Fatal().Err(err).Str("product", in.Name).Msg("failed to create product")
		default:
			log.Info().Str("id", product.ID).Str("slug", product.Slug).Msg("product created")
			created++
		}
	}

	addresses := service.NewAddressService(repository.NewMongoAddressRepository(db))
	for _, a := range seed.Addresses {
		if _, err := addresses.SaveAddress(ctx, a.UserID, a.toDomain(), a.IsDefault); err != nil {
			log.Warn().Str("user_id", a.UserID).Err(err).Msg("skipping address")
		}
	}

	log.Info().
		Int("products_created", created).
		Int("products_skipped", skipped).
		Int("addresses", len(seed.Addresses)).
		Msg("seed complete")
}
