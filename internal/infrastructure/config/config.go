package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Snapshot   SnapshotConfig
	Dispatcher DispatcherConfig
	Billing    BillingConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=workshop_system"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,       default=localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,         default=0"`
	ReportCacheTTL time.Duration `env:"REPORT_CACHE_TTL, default=10m"`
	SlotLockTTL    time.Duration `env:"SLOT_LOCK_TTL,    default=10s"`
}

type SnapshotConfig struct {
	PollInterval time.Duration `env:"SNAPSHOT_POLL_INTERVAL, default=30s"`
}

type DispatcherConfig struct {
	Workers int `env:"DISPATCHER_WORKERS, default=8"`
}

type BillingConfig struct {
	// PricePolicy is "current" or "frozen".
	PricePolicy string `env:"BILLING_PRICE_POLICY, default=current"`
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	return &cfg, nil
}
