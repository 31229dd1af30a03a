package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		add("MAX_UPLOAD_BYTES", "must be positive")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				add(field, "is required for the postgres driver")
			}
		}
		if cfg.Environment == Production && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required in production")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
		if cfg.Environment == Production {
			add("DB_DRIVER", "sqlite is not supported in production")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver))
	}

	switch cfg.StorageProvider {
	case StorageFirebase, StorageS3:
		if cfg.StorageBucket == "" {
			add("STORAGE_BUCKET", fmt.Sprintf("is required for the %s provider", cfg.StorageProvider))
		}
	case StorageMemory:
		if cfg.Environment == Production {
			add("STORAGE_PROVIDER", "memory storage is not supported in production")
		}
	default:
		add("STORAGE_PROVIDER", fmt.Sprintf("unknown provider %q", cfg.StorageProvider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
