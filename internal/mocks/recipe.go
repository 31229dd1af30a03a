package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/apitizers/backend/internal/service"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, in service.RecipeInput, image *service.ImageUpload) (*service.RecipeView, error) {
	args := m.Called(ctx, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, id uint, in service.RecipeInput, image *service.ImageUpload) (*service.RecipeView, error) {
	args := m.Called(ctx, id, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeService) ToggleFavorite(ctx context.Context, id uint) (*service.RecipeView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id uint) (*service.RecipeView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context) ([]service.RecipeView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeView), args.Error(1)
}

// MockRecipeIngredientService is a mock implementation of service.IRecipeIngredientService
type MockRecipeIngredientService struct {
	mock.Mock
}

func (m *MockRecipeIngredientService) List(ctx context.Context, recipeID uint) ([]service.IngredientView, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.IngredientView), args.Error(1)
}

func (m *MockRecipeIngredientService) Add(ctx context.Context, recipeID uint, line service.IngredientLine) (*service.IngredientView, error) {
	args := m.Called(ctx, recipeID, line)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngredientView), args.Error(1)
}

func (m *MockRecipeIngredientService) Clear(ctx context.Context, recipeID uint) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

var (
	_ service.IRecipeService           = (*MockRecipeService)(nil)
	_ service.IRecipeIngredientService = (*MockRecipeIngredientService)(nil)
)
