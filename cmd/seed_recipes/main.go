package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/pageza/apitizers/backend/config"
	"github.com/pageza/apitizers/backend/internal/database"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/metrics"
	"github.com/pageza/apitizers/backend/internal/service"
)

type ingredientData struct {
	Name     string
	Quantity string
	Unit     string
}

type recipeData struct {
	Name         string
	Description  string
	Instructions string
	Category     string
	Healthy      bool
	Ingredients  []ingredientData
}

var recipes = []recipeData{
	{
		Name:         "Bruschetta",
		Description:  "Toasted bread with tomato and basil",
		Instructions: "Toast the bread, rub with garlic, top with diced tomato and basil, drizzle with olive oil.",
		Category:     "Warm bites",
		Ingredients: []ingredientData{
			{"Baguette", "1", "piece"},
			{"Tomato", "4", ""},
			{"Garlic", "1", "clove"},
			{"Basil", "10", "leaves"},
			{"Olive oil", "2", "tbsp"},
		},
	},
	{
		Name:         "Hummus",
		Description:  "Chickpea dip with tahini",
		Instructions: "Blend chickpeas, tahini, lemon juice and garlic until smooth. Season and finish with olive oil.",
		Category:     "Dips & spreads",
		Healthy:      true,
		Ingredients: []ingredientData{
			{"Chickpeas", "400", "g"},
			{"Tahini", "3", "tbsp"},
			{"Lemon juice", "2", "tbsp"},
			{"Garlic", "1", "clove"},
			{"Olive oil", "1", "tbsp"},
		},
	},
	{
		Name:         "Caprese skewers",
		Description:  "Mozzarella, cherry tomato and basil",
		Instructions: "Thread tomato, basil and mozzarella on small skewers. Drizzle with balsamic.",
		Category:     "Skewers",
		Healthy:      true,
		Ingredients: []ingredientData{
			{"Cherry tomato", "12", ""},
			{"Mozzarella pearls", "12", ""},
			{"Basil", "12", "leaves"},
			{"Balsamic glaze", "1", "tbsp"},
		},
	},
	{
		Name:         "Gazpacho shooters",
		Description:  "Chilled tomato soup in small glasses",
		Instructions: "Blend all vegetables with olive oil and vinegar, chill for two hours and serve in shot glasses.",
		Category:     "Soups",
		Healthy:      true,
		Ingredients: []ingredientData{
			{"Tomato", "6", ""},
			{"Cucumber", "0.5", ""},
			{"Red pepper", "1", ""},
			{"Olive oil", "3", "tbsp"},
			{"Sherry vinegar", "1", "tbsp"},
		},
	},
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
	store, err := config.NewObjectStore(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("Failed to create object store", "error", err)
	}

	categories := service.NewCategoryService(db, logg)
	ingredients := service.NewIngredientService(db, logg)
	associations := service.NewRecipeIngredientService(db, ingredients, logg)
	m := metrics.New()
	recipeService := service.NewRecipeService(db, associations, service.NewImagePublisher(store, m, logg), nil, m, logg)

	seeded := 0
	for _, r := range recipes {
		category, _, err := categories.Ensure(ctx, r.Category, "")
		if err != nil {
			logg.Error("Failed to ensure category", "category", r.Category, "error", err)
			continue
		}

		in := service.RecipeInput{
			Name:         r.Name,
			Description:  r.Description,
			Instructions: &r.Instructions,
			IsHealthy:    &r.Healthy,
			CategoryID:   category.ID,
		}
		for _, ing := range r.Ingredients {
			quantity := decimal.RequireFromString(ing.Quantity)
			line := service.IngredientLine{
				IngredientName: ing.Name,
				Quantity:       &quantity,
			}
			if ing.Unit != "" {
				unit := ing.Unit
				line.Unit = &unit
			}
			in.RecipeIngredients = append(in.RecipeIngredients, line)
		}

		view, err := recipeService.Create(ctx, in, nil)
		if err != nil {
			logg.Error("Failed to save recipe", "name", r.Name, "error", err)
			continue
		}
		logg.Info("Successfully created recipe", "name", view.Name, "recipe_id", view.ID)
		seeded++
	}

	logg.Info("Recipes seeded", "count", seeded)
}
