package model

import (
	"github.com/shopspring/decimal"
)

// Quantities are rendered as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecipeIngredientKey identifies an association row.
type RecipeIngredientKey struct {
	RecipeID     uint
	IngredientID uint
}

// RecipeIngredient links a recipe to an ingredient with a quantity and an
// optional unit. At most one row exists per (recipe, ingredient) pair.
type RecipeIngredient struct {
	RecipeID     uint            `gorm:"primaryKey;autoIncrement:false" json:"recipeId"`
	IngredientID uint            `gorm:"primaryKey;autoIncrement:false" json:"ingredientId"`
	Quantity     decimal.Decimal `gorm:"type:numeric;not null" json:"quantity"`
	Unit         *string         `gorm:"size:50" json:"unit"`
	Ingredient   Ingredient      `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

func (ri RecipeIngredient) Key() RecipeIngredientKey {
	return RecipeIngredientKey{RecipeID: ri.RecipeID, IngredientID: ri.IngredientID}
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
	}
}
