package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "GIN_MODE", "LOG_MODE", "SHUTDOWN_TIMEOUT",
		"API_DETALLE_VENTAS_BASE_URL", "DETALLE_VENTAS_CONNECT_TIMEOUT", "DETALLE_VENTAS_READ_TIMEOUT",
		"GATEWAY_BASE_URL", "DB_DRIVER", "DB_DSN", "OTEL_EXPORTER", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8181", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8082", cfg.Detalles.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Detalles.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.Detalles.ReadTimeout)
	assert.Equal(t, "http://localhost:8888", cfg.GatewayURL)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "", cfg.Tracing.Exporter)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_DETALLE_VENTAS_BASE_URL", "http://detalles:8082")
	t.Setenv("GATEWAY_BASE_URL", "https://gateway.example.com/")
	t.Setenv("DETALLE_VENTAS_READ_TIMEOUT", "5s")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file:ventas.db")
	t.Setenv("OTEL_EXPORTER", "stdout")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://detalles:8082", cfg.Detalles.BaseURL)
	assert.Equal(t, "https://gateway.example.com", cfg.GatewayURL)
	assert.Equal(t, 5*time.Second, cfg.Detalles.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:ventas.db", cfg.Database.DSN)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":         {"DETALLE_VENTAS_CONNECT_TIMEOUT": "ten"},
		"negative duration":    {"SHUTDOWN_TIMEOUT": "-1s"},
		"unknown driver":       {"DB_DRIVER": "oracle"},
		"postgres without dsn": {"DB_DRIVER": "postgres"},
		"unknown exporter":     {"OTEL_EXPORTER": "zipkin"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
