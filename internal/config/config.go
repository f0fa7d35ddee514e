package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers understood by database.Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the service. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	Server     ServerConfig
	Detalles   DetallesConfig
	Database   DatabaseConfig
	Tracing    TracingConfig
	GatewayURL string
	LogMode    string
}

type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DetallesConfig points at the detalle-ventas microservice.
type DetallesConfig struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type TracingConfig struct {
	Exporter    string
	ServiceName string
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		d, err := getEnvAsDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8181"),
			GinMode:         getEnv("GIN_MODE", "release"),
			ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Detalles: DetallesConfig{
			BaseURL:        getEnv("API_DETALLE_VENTAS_BASE_URL", "http://localhost:8082"),
			ConnectTimeout: duration("DETALLE_VENTAS_CONNECT_TIMEOUT", 10*time.Second),
			ReadTimeout:    duration("DETALLE_VENTAS_READ_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", DriverMemory)),
			DSN:    getEnv("DB_DSN", ""),
		},
		Tracing: TracingConfig{
			Exporter:    strings.ToLower(getEnv("OTEL_EXPORTER", "")),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "api-ventas"),
		},
		GatewayURL: strings.TrimRight(getEnv("GATEWAY_BASE_URL", "http://localhost:8888"), "/"),
		LogMode:    getEnv("LOG_MODE", "production"),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Detalles.BaseURL == "" {
		return fmt.Errorf("API_DETALLE_VENTAS_BASE_URL is required")
	}
	if c.GatewayURL == "" {
		return fmt.Errorf("GATEWAY_BASE_URL is required")
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Tracing.Exporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown OTEL_EXPORTER %q", c.Tracing.Exporter)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
