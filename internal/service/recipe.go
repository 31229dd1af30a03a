package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/metrics"
	"github.com/pageza/apitizers/backend/internal/model"
)

// RecipeViewCache caches serialised recipe views.
type RecipeViewCache interface {
	GetRecipe(ctx context.Context, id uint) ([]byte, bool, error)
	SetRecipe(ctx context.Context, id uint, payload []byte) error
	GetList(ctx context.Context) ([]byte, bool, error)
	SetList(ctx context.Context, payload []byte) error
	Invalidate(ctx context.Context, id uint) error
}

// RecipeService owns the recipe aggregate: the recipe row, its ingredient
// associations and its image. Every write runs in a single transaction.
type RecipeService struct {
	db           *gorm.DB
	txr          *TxRunner
	associations *RecipeIngredientService
	images       *ImagePublisher
	cache        RecipeViewCache
	metrics      *metrics.AggregateMetrics
	log          *logger.Logger
}

// NewRecipeService creates a new RecipeService instance. cache and m may be nil.
func NewRecipeService(
	db *gorm.DB,
	associations *RecipeIngredientService,
	images *ImagePublisher,
	cache RecipeViewCache,
	m *metrics.AggregateMetrics,
	log *logger.Logger,
) *RecipeService {
	return &RecipeService{
		db:           db,
		txr:          NewTxRunner(db),
		associations: associations,
		images:       images,
		cache:        cache,
		metrics:      m,
		log:          log.With("service", "RecipeService"),
	}
}

// Create validates the category, publishes the image, then inserts the
// recipe and its associations in one transaction.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput, image *ImageUpload) (view *RecipeView, err error) {
	defer s.observe("create", time.Now(), &err)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := findCategory(s.db.WithContext(ctx), in.CategoryID); err != nil {
		return nil, err
	}

	// The upload runs outside the transaction; a failed write discards it.
	published, err := s.images.Publish(ctx, image, RecipeImageNamespace)
	if err != nil {
		return nil, err
	}

	err = s.txr.InTx(ctx, func(tx *gorm.DB) error {
		category, err := findCategory(tx, in.CategoryID)
		if err != nil {
			return err
		}
		recipe := model.Recipe{CategoryID: category.ID}
		applyInput(&recipe, in)
		if published != nil {
			recipe.Image = &published.URL
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return apperr.FromStore("create recipe", err)
		}
		if _, err := s.associations.ReplaceAll(ctx, tx, recipe.ID, in.RecipeIngredients); err != nil {
			return err
		}
		view = newRecipeView(&recipe, category.Name)
		return nil
	})
	if err != nil {
		s.images.Discard(ctx, published)
		return nil, apperr.FromStore("create recipe", err)
	}

	s.log.Info("Recipe created", "recipe_id", view.ID, "ingredients", len(in.RecipeIngredients))
	s.invalidate(ctx, view.ID)
	return view, nil
}

// Update rewrites every field of recipe id and replaces its association set.
// Without a new image the stored URL is kept.
func (s *RecipeService) Update(ctx context.Context, id uint, in RecipeInput, image *ImageUpload) (view *RecipeView, err error) {
	defer s.observe("update", time.Now(), &err)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := findRecipe(db, id); err != nil {
		return nil, err
	}
	if _, err := findCategory(db, in.CategoryID); err != nil {
		return nil, err
	}

	published, err := s.images.Publish(ctx, image, RecipeImageNamespace)
	if err != nil {
		return nil, err
	}

	err = s.txr.InTx(ctx, func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		category, err := findCategory(tx, in.CategoryID)
		if err != nil {
			return err
		}

		applyInput(recipe, in)
		recipe.CategoryID = category.ID
		if published != nil {
			recipe.Image = &published.URL
		}
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return apperr.FromStore("update recipe", err)
		}
		if _, err := s.associations.ReplaceAll(ctx, tx, recipe.ID, in.RecipeIngredients); err != nil {
			return err
		}
		view = newRecipeView(recipe, category.Name)
		return nil
	})
	if err != nil {
		s.images.Discard(ctx, published)
		return nil, apperr.FromStore("update recipe", err)
	}

	s.log.Info("Recipe updated", "recipe_id", id, "ingredients", len(in.RecipeIngredients), "new_image", published != nil)
	s.invalidate(ctx, id)
	return view, nil
}

// Delete removes recipe id together with its associations. The image object is kept.
func (s *RecipeService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe("delete", time.Now(), &err)

	err = s.txr.InTx(ctx, func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		if _, err := s.associations.ReplaceAll(ctx, tx, id, nil); err != nil {
			return err
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return apperr.FromStore("delete recipe", err)
		}
		return nil
	})
	if err != nil {
		return apperr.FromStore("delete recipe", err)
	}

	s.log.Info("Recipe deleted", "recipe_id", id)
	s.invalidate(ctx, id)
	return nil
}

// ToggleFavorite flips the favorite flag and touches nothing else.
func (s *RecipeService) ToggleFavorite(ctx context.Context, id uint) (view *RecipeView, err error) {
	defer s.observe("toggle_favorite", time.Now(), &err)

	err = s.txr.InTx(ctx, func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.Preload("Category").Take(&recipe, id).Error; err != nil {
			if errNotFound(err) {
				return apperr.NotFound("recipe", id)
			}
			return apperr.FromStore("look up recipe", err)
		}
		recipe.IsFavorite = !recipe.IsFavorite
		if err := tx.Model(&recipe).Update("is_favorite", recipe.IsFavorite).Error; err != nil {
			return apperr.FromStore("toggle favorite", err)
		}
		view = newRecipeView(&recipe, recipe.Category.Name)
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("toggle favorite", err)
	}

	s.invalidate(ctx, id)
	return view, nil
}

// Get returns the view of recipe id.
func (s *RecipeService) Get(ctx context.Context, id uint) (*RecipeView, error) {
	if s.cache != nil {
		if payload, ok, err := s.cache.GetRecipe(ctx, id); err != nil {
			s.log.Warn("Recipe cache read failed", "recipe_id", id, "error", err)
		} else if ok {
			var view RecipeView
			if err := json.Unmarshal(payload, &view); err == nil {
				return &view, nil
			}
		}
	}

	var recipe model.Recipe
	if err := s.db.WithContext(ctx).Preload("Category").Take(&recipe, id).Error; err != nil {
		if errNotFound(err) {
			return nil, apperr.NotFound("recipe", id)
		}
		return nil, apperr.FromStore("look up recipe", err)
	}
	view := newRecipeView(&recipe, recipe.Category.Name)

	if s.cache != nil {
		if payload, err := json.Marshal(view); err == nil {
			if err := s.cache.SetRecipe(ctx, id, payload); err != nil {
				s.log.Warn("Recipe cache write failed", "recipe_id", id, "error", err)
			}
		}
	}
	return view, nil
}

// List returns every recipe ordered by id.
func (s *RecipeService) List(ctx context.Context) ([]RecipeView, error) {
	if s.cache != nil {
		if payload, ok, err := s.cache.GetList(ctx); err != nil {
			s.log.Warn("Recipe list cache read failed", "error", err)
		} else if ok {
			var views []RecipeView
			if err := json.Unmarshal(payload, &views); err == nil {
				return views, nil
			}
		}
	}

	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Preload("Category").Order("id").Find(&recipes).Error; err != nil {
		return nil, apperr.FromStore("list recipes", err)
	}
	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, *newRecipeView(&recipes[i], recipes[i].Category.Name))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := s.cache.SetList(ctx, payload); err != nil {
				s.log.Warn("Recipe list cache write failed", "error", err)
			}
		}
	}
	return views, nil
}

func (s *RecipeService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), id); err != nil {
		s.log.Warn("Recipe cache invalidation failed", "recipe_id", id, "error", err)
	}
}

func (s *RecipeService) observe(op string, start time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = strings.ToLower(string(apperr.KindOf(*err)))
		if apperr.KindOf(*err) == apperr.KindStoreFailure {
			s.log.Error("Recipe operation failed", "operation", op, "error", *err)
		}
	}
	s.metrics.ObserveOperation(op, outcome, time.Since(start))
}

func findRecipe(db *gorm.DB, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := db.Take(&recipe, id).Error; err != nil {
		if errNotFound(err) {
			return nil, apperr.NotFound("recipe", id)
		}
		return nil, apperr.FromStore("look up recipe", err)
	}
	return &recipe, nil
}

func applyInput(r *model.Recipe, in RecipeInput) {
	r.Name = in.Name
	r.Description = in.Description
	r.Instructions = in.Instructions
	r.IsHealthy = boolValue(in.IsHealthy)
	r.IsFavorite = boolValue(in.IsFavorite)
	r.CategoryID = in.CategoryID
}
