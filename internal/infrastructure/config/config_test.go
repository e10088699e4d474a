package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SECRET_KEY": "s3cret",
		"SALT":       "pepper",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.Window)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://postgres:@localhost:5432/protorh?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SECRET_KEY":        "s3cret",
		"SALT":              "pepper",
		"TOKEN_TTL":         "30m",
		"STORE_DRIVER":      "memory",
		"DATABASE_USER":     "hr",
		"DATABASE_PASSWORD": "p@ss",
		"DATABASE_HOST":     "db",
		"DATABASE_NAME":     "rh",
		"ENV":               "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://hr:p%40ss@db:5432/rh?sslmode=disable", cfg.Database.DSN())

	cfg.Database.URL = "postgres://u@h/d"
	assert.Equal(t, "postgres://u@h/d", cfg.Database.DSN())
}

func TestLoad_Errors(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"SALT": "pepper"}))
	assert.Error(t, err, "missing SECRET_KEY")

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SECRET_KEY":   "s3cret",
		"SALT":         "pepper",
		"STORE_DRIVER": "sqlite",
	}))
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
