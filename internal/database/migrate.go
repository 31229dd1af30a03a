package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations to a PostgreSQL database.
type Migrator struct {
	migrate *migrate.Migrate
	log     *logger.Logger
}

func NewMigrator(db *sql.DB, dbName string, log *logger.Logger) (*Migrator, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    dbName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, log: log.With("component", "Migrator")}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	start := time.Now()
	from, err := m.Version()
	if err != nil {
		return err
	}
	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("No migrations to run", "current_version", from)
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	to, _ := m.Version()
	m.log.Info("Migrations completed", "from_version", from, "to_version", to, "duration", time.Since(start))
	return nil
}

// Down rolls back one migration
func (m *Migrator) Down() error {
	if err := m.migrate.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	m.log.Info("Migration rolled back")
	return nil
}

// Version returns the applied schema version, zero when none.
func (m *Migrator) Version() (uint, error) {
	v, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}

// RunMigrations brings the schema up to date. SQLite databases are
// auto-migrated from the models; PostgreSQL uses the embedded SQL files.
func RunMigrations(db *gorm.DB, dbName string, log *logger.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(model.All()...)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m, err := NewMigrator(sqlDB, dbName, log)
	if err != nil {
		return err
	}
	return m.Up()
}
