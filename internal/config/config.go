package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	App struct {
		Port            string
		LogLevel        string
		LogPretty       bool
		RequestTimeout  time.Duration
		ShutdownTimeout time.Duration
		MaxBodyBytes    int64
	}

	// StoreBackend selects mongo or memory for every store. OrderStore may
	// move the order ledger alone to postgres.
	StoreBackend string
	OrderStore   string

	Mongo struct {
		URI      string
		Database string
	}

	Postgres struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Kafka struct {
		Brokers []string
		Topic   string
	}

	Checkout struct {
		FreeDeliveryThreshold decimal.Decimal
		DeliveryFee           decimal.Decimal
		RollbackTimeout       time.Duration
	}
}

// Load reads an optional .env file at path and builds the config from the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	var (
		cfg  = &Config{}
		errs []error
	)

	cfg.App.Port = getEnv("HTTP_PORT", "8080")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.App.LogPretty = getBool("LOG_PRETTY", false, &errs)
	cfg.App.RequestTimeout = getDuration("REQUEST_TIMEOUT", 10*time.Second, &errs)
	cfg.App.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", 15*time.Second, &errs)
	cfg.App.MaxBodyBytes = int64(getInt("MAX_BODY_BYTES", 1<<20, &errs))

	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", BackendMongo))
	cfg.OrderStore = strings.ToLower(getEnv("ORDER_STORE", cfg.StoreBackend))

	cfg.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnv("MONGO_DATABASE", "storefront")

	cfg.Postgres.Host = getEnv("DB_HOST", "localhost")
	cfg.Postgres.Port = getInt("DB_PORT", 5432, &errs)
	cfg.Postgres.User = getEnv("DB_USER", "postgres")
	cfg.Postgres.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Postgres.DBName = getEnv("DB_NAME", "storefront")
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0, &errs)

	cfg.Kafka.Brokers = splitList(getEnv("KAFKA_BROKERS", ""))
	cfg.Kafka.Topic = getEnv("KAFKA_ORDER_TOPIC", "order-events")

	cfg.Checkout.FreeDeliveryThreshold = getDecimal("FREE_DELIVERY_THRESHOLD", decimal.NewFromInt(499), &errs)
	cfg.Checkout.DeliveryFee = getDecimal("DELIVERY_FEE", decimal.NewFromInt(40), &errs)
	cfg.Checkout.RollbackTimeout = getDuration("ROLLBACK_TIMEOUT", 10*time.Second, &errs)

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendMemory, c.StoreBackend)
	}
	switch c.OrderStore {
	case BackendMongo, BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("ORDER_STORE must be %q, %q or %q, got %q", BackendMongo, BackendMemory, BackendPostgres, c.OrderStore)
	}
	if c.StoreBackend == BackendMemory && c.OrderStore == BackendMongo {
		return errors.New("ORDER_STORE=mongo requires STORE_BACKEND=mongo")
	}
	if c.Checkout.DeliveryFee.IsNegative() || c.Checkout.FreeDeliveryThreshold.IsNegative() {
		return errors.New("delivery fee and threshold must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return v
}

func getDecimal(key string, defaultValue decimal.Decimal, errs *[]error) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
