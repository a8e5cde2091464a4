package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
				assert.Equal(t, 5*time.Second, cfg.RedisDialTimeout)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "pfm-dashboard", cfg.TokenIssuer)
				assert.Equal(t, "pfm-client", cfg.TokenAudience)
				assert.Equal(t, 600*time.Second, cfg.TokenExpiration)
				assert.False(t, cfg.RevocationFailClosed)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
				"ENVIRONMENT": "production",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
				assert.True(t, cfg.IsProduction())
			},
		},
		{
			name: "load custom token configuration",
			envVars: map[string]string{
				"TOKEN_SECRET":             "supersecret",
				"TOKEN_EXPIRATION_SECONDS": "60",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "supersecret", cfg.TokenSecret)
				assert.Equal(t, 60*time.Second, cfg.TokenExpiration)
			},
		},
		{
			name: "load custom revocation policy",
			envVars: map[string]string{
				"AUTH_REVOCATION_FAIL_CLOSED": "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.RevocationFailClosed)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":            "mysql",
				"DB_CONNECTION_STRING": "user:password@tcp(localhost:3306)/pfm",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/pfm", cfg.DBConnectionString)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}
			defer func() {
				for key := range tt.envVars {
					os.Unsetenv(key)
				}
			}()

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "warn"}).GetGinMode())
}
