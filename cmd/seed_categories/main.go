package main

import (
	"context"
	"log"

	"github.com/pageza/apitizers/backend/config"
	"github.com/pageza/apitizers/backend/internal/database"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/service"
)

var categories = []struct {
	Name        string
	Description string
}{
	{"Cold bites", "Finger food served chilled or at room temperature"},
	{"Warm bites", "Small oven or pan dishes served warm"},
	{"Dips & spreads", "Dips, spreads and pâtés to share"},
	{"Skewers", "Anything on a stick"},
	{"Soups", "Small cups and shooters"},
	{"Salads", "Light salads and bowls"},
	{"Sweet bites", "Small desserts"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	db, err := database.Open(cfg, logg)
	if err != nil {
		logg.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, cfg.DBName, logg); err != nil {
		logg.Fatal("Failed to run migrations", "error", err)
	}

	ctx := context.Background()
	svc := service.NewCategoryService(db, logg)
	created := 0
	for _, c := range categories {
		_, isNew, err := svc.Ensure(ctx, c.Name, c.Description)
		if err != nil {
			logg.Fatal("Failed to seed category", "name", c.Name, "error", err)
		}
		if isNew {
			created++
		}
	}
	logg.Info("Categories seeded", "created", created, "total", len(categories))
}
