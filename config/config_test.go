package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/storage"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "chef")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "apitizers_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("STORAGE_PROVIDER", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, "chef", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "apitizers_test", cfg.DBName)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, StorageMemory, cfg.StorageProvider)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "test", cfg.LogMode)
	assert.Equal(t, "host=db port=6543 user=chef password=postgres dbname=apitizers_test sslmode=disable", cfg.DSN())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("STORAGE_PROVIDER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "firebasestorage.googleapis.com", cfg.StorageHost)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("s3cret\n"), 0o600))

	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("STORAGE_PROVIDER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.DBPassword)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		Environment:     Production,
		ServerPort:      "8080",
		MaxUploadBytes:  1,
		DBDriver:        DriverSQLite,
		SQLitePath:      "x.db",
		StorageProvider: StorageFirebase,
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "STORAGE_BUCKET")

	cfg.Environment = Development
	cfg.StorageBucket = "apitizers.appspot.com"
	assert.NoError(t, ValidateConfig(cfg))

	cfg.StorageProvider = "ftp"
	assert.Error(t, ValidateConfig(cfg))
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("PROD"))
	assert.Equal(t, Test, ParseEnvironment("test"))
	assert.Equal(t, Development, ParseEnvironment(""))
}

func TestNewObjectStoreMemory(t *testing.T) {
	cfg := &Config{StorageProvider: StorageMemory, StorageHost: "firebasestorage.googleapis.com"}
	store, err := NewObjectStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)

	cfg.StorageProvider = "ftp"
	_, err = NewObjectStore(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
