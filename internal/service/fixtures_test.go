package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/metrics"
	"github.com/pageza/apitizers/backend/internal/model"
	"github.com/pageza/apitizers/backend/internal/storage"
	"github.com/pageza/apitizers/backend/internal/testhelpers"
)

type fixture struct {
	db           *gorm.DB
	store        *storage.MemoryStore
	ingredients  *IngredientService
	associations *RecipeIngredientService
	images       *ImagePublisher
	recipes      *RecipeService
	categories   *CategoryService
	category     *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDB(t, testhelpers.NewSQLiteDB(t))
}

func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	log := logger.Nop()
	m := metrics.New()
	store := storage.NewMemoryStore("firebasestorage.googleapis.com", "apitizers.appspot.com")

	ingredients := NewIngredientService(db, log)
	associations := NewRecipeIngredientService(db, ingredients, log)
	images := NewImagePublisher(store, m, log)
	return &fixture{
		db:           db,
		store:        store,
		ingredients:  ingredients,
		associations: associations,
		images:       images,
		recipes:      NewRecipeService(db, associations, images, nil, m, log),
		categories:   NewCategoryService(db, log),
		category:     testhelpers.SeedCategory(t, db, "Starters"),
	}
}

func line(name string, n int64, unit string) IngredientLine {
	l := IngredientLine{IngredientName: name, Quantity: qty(n)}
	if unit != "" {
		l.Unit = &unit
	}
	return l
}

func qty(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func qtyOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func uintPtr(u uint) *uint { return &u }

func countRows(t *testing.T, db *gorm.DB, m interface{}, where ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}
