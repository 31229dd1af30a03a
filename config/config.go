package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerHost         string   `mapstructure:"server_host"`
	ServerPort         string   `mapstructure:"server_port"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	MaxUploadBytes     int64    `mapstructure:"max_upload_bytes"`

	// Database configuration
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// Redis configuration, optional
	RedisURL string        `mapstructure:"redis_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Object storage configuration
	StorageProvider string `mapstructure:"storage_provider"`
	StorageBucket   string `mapstructure:"storage_bucket"`
	StorageHost     string `mapstructure:"storage_host"`
	FirebaseKeyPath string `mapstructure:"firebase_key_path"`
	AWSRegion       string `mapstructure:"aws_region"`

	LogMode string `mapstructure:"log_mode"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageFirebase = "firebase"
	StorageS3       = "s3"
	StorageMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("max_upload_bytes", int64(10<<20))

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "apitizers")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "apitizers.db")

	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", 10*time.Minute)

	v.SetDefault("storage_provider", StorageFirebase)
	v.SetDefault("storage_bucket", "")
	v.SetDefault("storage_host", "firebasestorage.googleapis.com")
	v.SetDefault("firebase_key_path", "")
	v.SetDefault("aws_region", "")

	v.SetDefault("log_mode", "")
}

// LoadConfig reads configuration from an optional config.yaml, environment
// variables and Docker secrets, in increasing order of precedence for secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Environment = env

	// Docker secrets win over empty values outside CI
	if env != CI {
		if secret := readSecret("db_password"); secret != "" && cfg.DBPassword == "" {
			cfg.DBPassword = secret
		}
		if secret := readSecret("redis_url"); secret != "" && cfg.RedisURL == "" {
			cfg.RedisURL = secret
		}
	}
	if cfg.LogMode == "" {
		cfg.LogMode = string(env)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.StorageProvider = strings.ToLower(strings.TrimSpace(cfg.StorageProvider))

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// DatabaseURL returns the PostgreSQL connection string in URL form
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
