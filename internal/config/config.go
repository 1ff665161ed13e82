package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type HTTPOptions struct {
	Port         string        `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

type DatabaseOptions struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name       string `env:"DB_NAME" envDefault:"go_leave"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
}

func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisOptions struct {
	Addr       string `env:"REDIS_ADDR"`
	MaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
}

type KafkaOptions struct {
	Broker             string        `env:"KAFKA_BROKER"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
	ConsumerGroup      string        `env:"KAFKA_CONSUMER_GROUP" envDefault:"go-leave-lifecycle"`
	MaxRetries         int           `env:"KAFKA_MAX_RETRIES" envDefault:"5"`
}

type AuthOptions struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type RateLimitOptions struct {
	Enabled   bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	IPRPS     float64 `env:"RATE_LIMIT_IP_RPS" envDefault:"20"`
	IPBurst   int     `env:"RATE_LIMIT_IP_BURST" envDefault:"40"`
	UserRPS   float64 `env:"RATE_LIMIT_USER_RPS" envDefault:"5"`
	UserBurst int     `env:"RATE_LIMIT_USER_BURST" envDefault:"10"`
}

type LeaveOptions struct {
	BalanceCacheTTL time.Duration `env:"BALANCE_CACHE_TTL" envDefault:"10m"`
}

type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	HTTP      HTTPOptions
	Database  DatabaseOptions
	Redis     RedisOptions
	Kafka     KafkaOptions
	Auth      AuthOptions
	RateLimit RateLimitOptions
	Leave     LeaveOptions
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.IPRPS <= 0 || c.RateLimit.UserRPS <= 0) {
		return errors.New("rate limit RPS must be positive when rate limiting is enabled")
	}
	if c.Leave.BalanceCacheTTL < 0 {
		return fmt.Errorf("BALANCE_CACHE_TTL must not be negative, got %s", c.Leave.BalanceCacheTTL)
	}
	return nil
}

// Load reads the given .env files (missing ones are skipped) and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
