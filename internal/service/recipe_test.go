package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/model"
	"github.com/pageza/apitizers/backend/internal/testhelpers"
)

func TestSaladScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, RecipeInput{
		Name:              "Salad",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Lettuce", 2, "cups")},
	}, nil)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.Image)
	assert.Equal(t, "Starters", created.CategoryName)

	views, err := f.associations.List(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Lettuce", views[0].IngredientName)
	assert.True(t, views[0].Quantity.Equal(decimal.NewFromInt(2)))

	_, err = f.recipes.Update(ctx, created.ID, RecipeInput{
		Name:       "Salad",
		CategoryID: f.category.ID,
		RecipeIngredients: []IngredientLine{
			{IngredientName: "Lettuce", Quantity: qty(3)},
			{IngredientName: "Tomato", Quantity: qty(1)},
		},
	}, nil)
	require.NoError(t, err)

	views, err = f.associations.List(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Lettuce", views[0].IngredientName)
	assert.True(t, views[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "Tomato", views[1].IngredientName)
	assert.True(t, views[1].Quantity.Equal(decimal.NewFromInt(1)))

	assert.Equal(t, int64(1), countRows(t, f.db, &model.Ingredient{}, "name = ?", "Tomato"))
	assert.Equal(t, int64(1), countRows(t, f.db, &model.Ingredient{}, "name = ?", "Lettuce"))
}

func TestCreateRejectsInvalidInputBeforeStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.recipes.Create(ctx, RecipeInput{CategoryID: f.category.ID}, &ImageUpload{Filename: "a.png", Data: []byte("a")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Contains(t, err.Error(), "name is required")

	_, err = f.recipes.Create(ctx, RecipeInput{
		Name:              "Soup",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{{Quantity: qty(1)}},
	}, nil)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Contains(t, err.Error(), "recipeIngredients[0].ingredientName")

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Recipe{}))
}

func TestCreateRequiresQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.recipes.Create(context.Background(), RecipeInput{
		Name:              "Omelette",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Egg", 3, ""), {IngredientName: "Butter", Unit: strPtr("g")}},
	}, &ImageUpload{Filename: "omelette.png", Data: []byte("img")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Equal(t, "recipeIngredients[1].quantity is required", err.Error())

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Recipe{}))
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Ingredient{}))
	assert.Equal(t, int64(0), countRows(t, f.db, &model.RecipeIngredient{}))
}

func TestCreateRejectsBlankNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	img := &ImageUpload{Filename: "blank.png", Data: []byte("img")}

	_, err := f.recipes.Create(ctx, RecipeInput{Name: "  \t", CategoryID: f.category.ID}, img)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Equal(t, "name must not be blank", err.Error())

	_, err = f.recipes.Create(ctx, RecipeInput{
		Name:              "Soup",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Leek", 1, ""), line("   ", 2, "")},
	}, img)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Equal(t, "recipeIngredients[1].ingredientName must not be blank", err.Error())

	existing := createRecipe(t, f, line("Lettuce", 2, "cups"))
	_, err = f.recipes.Update(ctx, existing.ID, RecipeInput{
		Name:              "Salad",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line(" ", 1, "")},
	}, img)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, int64(1), countRows(t, f.db, &model.Recipe{}))
	assert.Equal(t, int64(1), countRows(t, f.db, &model.Ingredient{}))
	views, err := f.associations.List(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Lettuce", views[0].IngredientName)
}

func TestImageUploadRunsOutsideTransaction(t *testing.T) {
	f := newFixture(t)
	store := new(testhelpers.MockObjectStore)
	recipes := NewRecipeService(f.db, f.associations, NewImagePublisher(store, nil, logger.Nop()), nil, nil, logger.Nop())

	// The test database has one connection, so this query only completes
	// when no transaction holds it.
	store.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		var n int64
		assert.NoError(t, f.db.WithContext(ctx).Model(&model.Recipe{}).Count(&n).Error)
	}).Return("https://img.example/o/recipes%2Fslow.png", nil)

	ctx := context.Background()
	view, err := recipes.Create(ctx, RecipeInput{
		Name:              "Tart",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Pear", 2, "")},
	}, &ImageUpload{Filename: "slow.png", Data: []byte("img")})
	require.NoError(t, err)
	require.NotNil(t, view.Image)
	assert.Equal(t, "https://img.example/o/recipes%2Fslow.png", *view.Image)

	_, err = recipes.Update(ctx, view.ID, RecipeInput{
		Name:       "Pear tart",
		CategoryID: f.category.ID,
	}, &ImageUpload{Filename: "slow.png", Data: []byte("img2")})
	require.NoError(t, err)

	store.AssertNumberOfCalls(t, "Put", 2)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateWithUnknownCategory(t *testing.T) {
	f := newFixture(t)
	_, err := f.recipes.Create(context.Background(), RecipeInput{
		Name:              "Soup",
		CategoryID:        404,
		RecipeIngredients: []IngredientLine{line("Leek", 1, "")},
	}, &ImageUpload{Filename: "soup.png", Data: []byte("img")})

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "category not found: 404", err.Error())
	assert.Equal(t, 0, f.store.Len(), "no upload before the category is validated")
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Ingredient{}))
}

func TestCreateWithImage(t *testing.T) {
	f := newFixture(t)
	view, err := f.recipes.Create(context.Background(), RecipeInput{
		Name:       "Bruschetta",
		CategoryID: f.category.ID,
		IsHealthy:  boolPtr(true),
	}, &ImageUpload{Filename: "bruschetta.jpg", Data: []byte("jpeg")})
	require.NoError(t, err)

	require.NotNil(t, view.Image)
	assert.Contains(t, *view.Image, "/v0/b/apitizers.appspot.com/o/recipes%2F")
	assert.Contains(t, *view.Image, "alt=media&token=")
	assert.True(t, view.IsHealthy)
	assert.False(t, view.IsFavorite)
	assert.Equal(t, 1, f.store.Len())
}

func TestUpdateWithUnknownCategoryIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.recipes.Create(ctx, RecipeInput{
		Name:              "Salad",
		Description:       "Green",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Lettuce", 2, "cups")},
	}, &ImageUpload{Filename: "salad.png", Data: []byte("v1")})
	require.NoError(t, err)

	_, err = f.recipes.Update(ctx, before.ID, RecipeInput{
		Name:              "Renamed",
		Description:       "Changed",
		IsFavorite:        boolPtr(true),
		CategoryID:        999,
		RecipeIngredients: []IngredientLine{line("Tomato", 5, "")},
	}, &ImageUpload{Filename: "new.png", Data: []byte("v2")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	after, err := f.recipes.Get(ctx, before.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	views, err := f.associations.List(ctx, before.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Lettuce", views[0].IngredientName)
	assert.True(t, views[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Ingredient{}, "name = ?", "Tomato"))
	assert.Equal(t, 1, f.store.Len())
}

func TestFailedWriteDiscardsUploadedImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.recipes.Create(ctx, RecipeInput{
		Name:              "Stew",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Beef", 1, "kg"), {IngredientID: uintPtr(31337), Quantity: qty(1)}},
	}, &ImageUpload{Filename: "stew.png", Data: []byte("img")})

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, 0, f.store.Len(), "image uploaded before the failed write is removed")
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Recipe{}))
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Ingredient{}, "name = ?", "Beef"))
}

func TestImageUploadFailureAbortsCreate(t *testing.T) {
	f := newFixture(t)
	f.store.FailPut = errors.New("quota exceeded")

	_, err := f.recipes.Create(context.Background(), RecipeInput{
		Name:              "Pie",
		CategoryID:        f.category.ID,
		RecipeIngredients: []IngredientLine{line("Apple", 3, "")},
	}, &ImageUpload{Filename: "pie.png", Data: []byte("img")})

	assert.True(t, apperr.Is(err, apperr.KindStoreFailure))
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Recipe{}))
	assert.Equal(t, int64(0), countRows(t, f.db, &model.Ingredient{}))
}

func TestUpdateKeepsImageWhenNoneGiven(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, RecipeInput{Name: "Toast", CategoryID: f.category.ID},
		&ImageUpload{Filename: "toast.png", Data: []byte("img")})
	require.NoError(t, err)
	other := testCategory(t, f, "Desserts")

	updated, err := f.recipes.Update(ctx, created.ID, RecipeInput{
		Name:         "French toast",
		Description:  "Sweet",
		Instructions: strPtr("Fry it"),
		CategoryID:   other.ID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Image, updated.Image)
	assert.Equal(t, "French toast", updated.Name)
	assert.Equal(t, "Fry it", *updated.Instructions)
	assert.Equal(t, "Desserts", updated.CategoryName)

	replaced, err := f.recipes.Update(ctx, created.ID, RecipeInput{Name: "French toast", CategoryID: other.ID},
		&ImageUpload{Filename: "toast2.png", Data: []byte("img2")})
	require.NoError(t, err)
	assert.NotEqual(t, *created.Image, *replaced.Image)
	assert.Equal(t, 2, f.store.Len(), "replaced images are retained")
}

func TestUpdateUnknownRecipe(t *testing.T) {
	f := newFixture(t)
	_, err := f.recipes.Update(context.Background(), 55, RecipeInput{Name: "X", CategoryID: f.category.ID}, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "recipe not found: 55", err.Error())
}

func TestToggleFavoriteTwiceRestores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := createRecipe(t, f, line("Lettuce", 1, ""))
	require.False(t, created.IsFavorite)

	once, err := f.recipes.ToggleFavorite(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, once.IsFavorite)
	assert.Equal(t, created.Name, once.Name)
	assert.Equal(t, created.CategoryName, once.CategoryName)

	twice, err := f.recipes.ToggleFavorite(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, twice)

	views, err := f.associations.List(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = f.recipes.ToggleFavorite(ctx, 9000)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteRemovesAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := createRecipe(t, f, line("Lettuce", 2, "cups"), line("Tomato", 1, ""))

	require.NoError(t, f.recipes.Delete(ctx, created.ID))

	assert.Equal(t, int64(0), countRows(t, f.db, &model.RecipeIngredient{}, "recipe_id = ?", created.ID))
	_, err := f.associations.List(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.recipes.Get(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, int64(2), countRows(t, f.db, &model.Ingredient{}), "ingredients outlive the recipe")

	assert.True(t, apperr.Is(f.recipes.Delete(ctx, created.ID), apperr.KindNotFound))
}

func TestListOrderedByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createRecipe(t, f)
	b := createRecipe(t, f)

	list, err := f.recipes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, "Starters", list[0].CategoryName)
}

func testCategory(t *testing.T, f *fixture, name string) *model.Category {
	t.Helper()
	c, created, err := f.categories.Ensure(context.Background(), name, "")
	require.NoError(t, err)
	require.True(t, created)
	return c
}
