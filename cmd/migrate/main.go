package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/pageza/apitizers/backend/config"
	"github.com/pageza/apitizers/backend/internal/database"
	"github.com/pageza/apitizers/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	version := flag.Bool("version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DBDriver != config.DriverPostgres {
		log.Fatalf("migrations require DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.DBDriver)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logg.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	m, err := database.NewMigrator(db, cfg.DBName, logg)
	if err != nil {
		log.Fatalf("failed to prepare migrations: %v", err)
	}

	switch {
	case *version:
		v, err := m.Version()
		if err != nil {
			log.Fatalf("failed to read schema version: %v", err)
		}
		fmt.Printf("Schema version: %d\n", v)
	case *rollback:
		if err := m.Down(); err != nil {
			log.Fatalf("failed to roll back: %v", err)
		}
		fmt.Println("Successfully rolled back the last migration.")
	default:
		if err := m.Up(); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		fmt.Println("All migrations applied successfully.")
	}
}
