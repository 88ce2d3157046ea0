package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers understood by StoreConfig.Driver.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	GRPC     GRPCConfig     `envPrefix:"GRPC_"`
	Store    StoreConfig    `envPrefix:"STORE_"`
	Mongo    MongoConfig    `envPrefix:"MONGO_"`
	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Logger   LoggerConfig   `envPrefix:"LOG_"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"NAME" envDefault:"user-directory"`
	Env                   string `env:"ENV" envDefault:"development"`
	Host                  string `env:"HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"PORT" envDefault:"8080"`
	Version               string `env:"VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// GRPCConfig controls the gRPC listener.
type GRPCConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Port    string `env:"PORT" envDefault:"50051"`
}

// StoreConfig selects the user store backend.
type StoreConfig struct {
	Driver string `env:"DRIVER" envDefault:"mongo"`
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI            string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database       string `env:"DATABASE" envDefault:"directory"`
	Collection     string `env:"COLLECTION" envDefault:"users"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"10"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"DSN"`
	MaxConns       int32  `env:"MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr         string `env:"ADDR" envDefault:"127.0.0.1:6379"`
	Password     string `env:"PASSWORD"`
	DB           int    `env:"DB" envDefault:"0"`
	EventsStream string `env:"EVENTS_STREAM" envDefault:"user-directory:events"`
	EventsMaxLen int64  `env:"EVENTS_MAX_LEN" envDefault:"10000"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables, applying defaults where possible.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Store.Driver {
	case StoreDriverMongo, StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the gRPC bind address, sharing the HTTP host.
func (g GRPCConfig) Addr(host string) string {
	return fmt.Sprintf("%s:%s", host, g.Port)
}

// Timeout returns the per-operation timeout used when connecting.
func (m MongoConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}
