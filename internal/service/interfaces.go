package service

import (
	"context"

	"github.com/pageza/apitizers/backend/internal/model"
)

// IRecipeService defines the interface for recipe aggregate operations
type IRecipeService interface {
	Create(ctx context.Context, in RecipeInput, image *ImageUpload) (*RecipeView, error)
	Update(ctx context.Context, id uint, in RecipeInput, image *ImageUpload) (*RecipeView, error)
	Delete(ctx context.Context, id uint) error
	ToggleFavorite(ctx context.Context, id uint) (*RecipeView, error)
	Get(ctx context.Context, id uint) (*RecipeView, error)
	List(ctx context.Context) ([]RecipeView, error)
}

// IRecipeIngredientService defines the direct association operations
type IRecipeIngredientService interface {
	List(ctx context.Context, recipeID uint) ([]IngredientView, error)
	Add(ctx context.Context, recipeID uint, line IngredientLine) (*IngredientView, error)
	Clear(ctx context.Context, recipeID uint) error
}

// IIngredientService defines the standalone ingredient operations
type IIngredientService interface {
	List(ctx context.Context) ([]model.Ingredient, error)
	Get(ctx context.Context, id uint) (*model.Ingredient, error)
	Create(ctx context.Context, in IngredientInput) (*model.Ingredient, error)
	Update(ctx context.Context, id uint, in IngredientInput) (*model.Ingredient, error)
	Delete(ctx context.Context, id uint) error
}

// ICategoryService defines the read-only category operations
type ICategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
}

var (
	_ IRecipeService           = (*RecipeService)(nil)
	_ IRecipeIngredientService = (*RecipeIngredientService)(nil)
	_ IIngredientService       = (*IngredientService)(nil)
	_ ICategoryService         = (*CategoryService)(nil)
)
