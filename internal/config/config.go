package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	HTTP  HTTPServer
	DB    Database
	Token Token
	// HealthCheckSchedule is a cron spec for the background database probe.
	HealthCheckSchedule string `env:"HEALTH_CHECK_SCHEDULE" env-default:"@every 1m"`
}

type HTTPServer struct {
	Address      string        `env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	ConnectionString string `env:"DB_CONNECTION_STRING" env-required:"true"`
	Name             string `env:"DB_NAME" env-default:"expense_manager"`
}

type Token struct {
	Secret           string `env:"JWT_SECRET" env-required:"true"`
	Issuer           string `env:"JWT_ISSUER"`
	Audience         string `env:"JWT_AUDIENCE"`
	ExpiresInMinutes int    `env:"JWT_EXPIRES_IN_MINUTES" env-default:"60"`
}

// TTL is the lifetime of an issued access token.
func (t Token) TTL() time.Duration {
	return time.Duration(t.ExpiresInMinutes) * time.Minute
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, continuing with system environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read configuration: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.Token.ExpiresInMinutes <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN_MINUTES must be positive, got %d", c.Token.ExpiresInMinutes)
	}
	if c.Token.Issuer != "" && c.Token.Audience != "" {
		return nil
	}
	host, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("could not resolve host name for token issuer: %w", err)
	}
	if c.Token.Issuer == "" {
		c.Token.Issuer = host
	}
	if c.Token.Audience == "" {
		c.Token.Audience = host
	}
	return nil
}
