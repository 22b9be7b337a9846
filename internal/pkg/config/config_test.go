package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.PinLoginPerMinute)
	assert.Equal(t, "production_tracker", cfg.Mongo.Database)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.EqualValues(t, 10<<20, cfg.Storage.MaxBytes)
	assert.Empty(t, cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":             "Production",
		"TOKEN_TTL":       "2h",
		"REDIS_ENABLED":   "true",
		"REDIS_PASSWORD":  "s3cret",
		"STORAGE_DRIVER":  " GridFS ",
		"PUBLIC_BASE_URL": "https://tracker.example.com/",
		"MONGO_DB":        "shop",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "s3cret", cfg.Redis.Password)
	assert.Equal(t, StorageGridFS, cfg.Storage.Driver)
	assert.Equal(t, "https://tracker.example.com", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "shop", cfg.Mongo.Database)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver": {"STORAGE_DRIVER": "s3"},
		"zero max bytes": {"UPLOAD_MAX_BYTES": "0"},
		"bad duration":   {"TOKEN_TTL": "soon"},
		"negative ttl":   {"TOKEN_TTL": "-1h"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DB=from_file\n"), 0o600))
	os.Unsetenv("MONGO_DB")
	t.Cleanup(func() { os.Unsetenv("MONGO_DB") })

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.Mongo.Database)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
