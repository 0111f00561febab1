package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/cache"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/config"
	h "github.com/mudhasirp/Leather-Ecommerce-API/internal/http"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/publisher"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/store"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/circuitbreaker"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/metrics"
)

const serviceName = "storefront"

// stores groups the repositories selected by configuration.
type stores struct {
	products  repository.ProductRepository
	carts     repository.CartRepository
	orders    repository.OrderRepository
	enquiries repository.EnquiryRepository
	addresses repository.AddressRepository
	closers   []func(context.Context) error
}

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(serviceName, cfg.App.LogLevel, cfg.App.LogPretty)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stores")
	}

	cartCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	events := openPublisher(cfg)
	dispatcher := publisher.NewDispatcher(events, 0)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go dispatcher.Run(dispatchCtx)

	reg := prometheus.DefaultRegisterer
	pricing := service.Pricing{
		FreeDeliveryThreshold: cfg.Checkout.FreeDeliveryThreshold,
		DeliveryFee:           cfg.Checkout.DeliveryFee,
	}

	carts := service.NewCartService(st.carts, st.products, cartCache)
	checkout := service.NewCheckoutService(carts, st.products, st.orders, pricing,
		service.WithCheckoutMetrics(metrics.NewCheckoutMetrics(reg)),
		service.WithRollbackTimeout(cfg.Checkout.RollbackTimeout),
		service.WithOrderNotifier(dispatcher),
	)
	orders := service.NewOrderService(st.orders, st.products).WithNotifier(dispatcher)

	router := h.NewRouter(h.Services{
		Checkout:  checkout,
		Orders:    orders,
		Carts:     carts,
		Catalog:   service.NewCatalogService(st.products),
		Enquiries: service.NewEnquiryService(st.enquiries, st.products, st.addresses),
		Addresses: service.NewAddressService(st.addresses),
		Pricing:   pricing,
	}, h.RouterConfig{
		Service:        serviceName,
		Logger:         log.Logger,
		Metrics:        metrics.NewServerMetrics(reg, serviceName),
		MetricsHandler: metrics.Handler(),
		RequestTimeout: cfg.App.RequestTimeout,
		MaxBodyBytes:   cfg.App.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.App.Port).
			Str("store", cfg.StoreBackend).
			Str("order_store", cfg.OrderStore).
			Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopDispatch()
	dispatcher.Wait()
	if err := events.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close event publisher")
	}
	if err := closeCache(); err != nil {
		log.Error().Err(err).Msg("failed to close redis client")
	}
	for _, closeFn := range st.closers {
		if err := closeFn(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}

	log.Info().Msg("server exited")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	st := &stores{}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		mem := store.NewMemoryStore()
		st.products, st.carts, st.orders, st.enquiries, st.addresses = mem, mem, mem, mem, mem
		log.Warn().Msg("using in-memory stores, data is lost on restart")

	case config.BackendMongo:
		db, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		if err := repository.CreateIndexes(ctx, db); err != nil {
			return nil, err
		}
		st.closers = append(st.closers, disconnect(db))

		st.products = repository.NewMongoProductRepository(db)
		st.carts = repository.NewMongoCartRepository(db)
		st.orders = repository.NewMongoOrderRepository(db)
		st.enquiries = repository.NewMongoEnquiryRepository(db)
		st.addresses = repository.NewMongoAddressRepository(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	}

	if cfg.OrderStore == config.BackendPostgres {
		pg, err := repository.NewPostgresOrderRepository(ctx, &repository.Credentials{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(); err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return pg.Close() })
		st.orders = pg
		log.Info().Str("host", cfg.Postgres.Host).Msg("order ledger on PostgreSQL")
	}

	return st, nil
}

func disconnect(db *mongo.Database) func(context.Context) error {
	return func(ctx context.Context) error {
		return db.Client().Disconnect(ctx)
	}
}

// openCache returns a breaker-guarded Redis cache, or a no-op cache when
// REDIS_ADDR is empty.
func openCache(ctx context.Context, cfg *config.Config) (cache.CartCache, func() error, error) {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, cart cache disabled")
		return cache.NopCache{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis ping succeeded")

	guarded := cache.NewBreakerCache(cache.NewRedisCache(client), circuitbreaker.DefaultSettings("redis-cart"))
	return guarded, client.Close, nil
}

func openPublisher(cfg *config.Config) publisher.OrderEvents {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("KAFKA_BROKERS not set, order events are only logged")
		return publisher.LogPublisher{}
	}
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing order events to kafka")
	return publisher.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
}
