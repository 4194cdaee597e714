package config

import (
	"fmt"
	"os"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"3000"`

	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME" envDefault:"payroll"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	KafkaBroker string `env:"KAFKA_BROKER"`
	JWTSecret   string `env:"JWT_SECRET"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"payroll@localhost"`
	MailFromName string `env:"MAIL_FROM_NAME" envDefault:"Payroll"`

	SweepSchedule        string        `env:"SWEEP_SCHEDULE" envDefault:"@every 15m"`
	SweepLockTTL         time.Duration `env:"SWEEP_LOCK_TTL" envDefault:"10m"`
	ProcessingStaleAfter time.Duration `env:"PROCESSING_STALE_AFTER" envDefault:"30m"`
	DispatchConcurrency  int           `env:"DISPATCH_CONCURRENCY" envDefault:"4"`
	OutboxPollInterval   time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else {
		if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
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

func (c *Config) Validate() error {
	if c.DispatchConcurrency < 1 {
		return fmt.Errorf("DISPATCH_CONCURRENCY must be >= 1, got %d", c.DispatchConcurrency)
	}
	if c.ProcessingStaleAfter <= 0 {
		return fmt.Errorf("PROCESSING_STALE_AFTER must be positive")
	}
	if c.SweepLockTTL <= 0 {
		return fmt.Errorf("SWEEP_LOCK_TTL must be positive")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Database() connection.DatabaseConfig {
	return connection.DatabaseConfig{
		Host:     c.DBHost,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		Port:     c.DBPort,
		SSLMode:  c.DBSSLMode,
	}
}
