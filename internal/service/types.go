package service

import (
	"github.com/shopspring/decimal"

	"github.com/pageza/apitizers/backend/internal/model"
)

// IngredientLine is one (ingredient, quantity, unit) entry of a recipe
// payload. IngredientID wins over IngredientName when both are set.
type IngredientLine struct {
	IngredientID   *uint            `json:"ingredientId"`
	IngredientName string           `json:"ingredientName" validate:"required_without=IngredientID,omitempty,notblank,max=255"`
	Quantity       *decimal.Decimal `json:"quantity" validate:"required"`
	Unit           *string          `json:"unit" validate:"omitempty,max=50"`
}

// RecipeInput carries the writable fields of a recipe.
type RecipeInput struct {
	Name              string           `json:"name" validate:"required,notblank,max=255"`
	Description       string           `json:"description"`
	Instructions      *string          `json:"instructions"`
	IsHealthy         *bool            `json:"isHealthy"`
	IsFavorite        *bool            `json:"isFavorite"`
	CategoryID        uint             `json:"categoryId" validate:"required"`
	RecipeIngredients []IngredientLine `json:"recipeIngredients" validate:"dive"`
}

// RecipeView is the read model returned for a recipe.
type RecipeView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Instructions *string `json:"instructions"`
	IsHealthy    bool    `json:"isHealthy"`
	IsFavorite   bool    `json:"isFavorite"`
	CategoryName string  `json:"categoryName"`
	Image        *string `json:"image"`
}

// IngredientView is one association as seen from its recipe.
type IngredientView struct {
	IngredientID   uint            `json:"ingredientId"`
	IngredientName string          `json:"ingredientName"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           *string         `json:"unit"`
}

func newRecipeView(r *model.Recipe, categoryName string) *RecipeView {
	return &RecipeView{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Instructions: r.Instructions,
		IsHealthy:    r.IsHealthy,
		IsFavorite:   r.IsFavorite,
		CategoryName: categoryName,
		Image:        r.Image,
	}
}

func newIngredientView(ri *model.RecipeIngredient) IngredientView {
	return IngredientView{
		IngredientID:   ri.IngredientID,
		IngredientName: ri.Ingredient.Name,
		Quantity:       ri.Quantity,
		Unit:           ri.Unit,
	}
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
