package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/model"
)

// IngredientInput is the payload of the standalone ingredient endpoints.
type IngredientInput struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// IngredientService resolves ingredients for recipe lines and serves the
// standalone ingredient CRUD operations.
type IngredientService struct {
	db  *gorm.DB
	txr *TxRunner
	log *logger.Logger
}

func NewIngredientService(db *gorm.DB, log *logger.Logger) *IngredientService {
	return &IngredientService{
		db:  db,
		txr: NewTxRunner(db),
		log: log.With("service", "IngredientService"),
	}
}

// Resolve returns the ingredient identified by id, or by exact name when id
// is nil. An unknown name is created. Runs inside tx when it is non-nil.
func (s *IngredientService) Resolve(ctx context.Context, tx *gorm.DB, id *uint, name string) (*model.Ingredient, error) {
	db := conn(ctx, s.db, tx)
	if id != nil {
		var ing model.Ingredient
		if err := db.Take(&ing, *id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("ingredient", *id)
			}
			return nil, apperr.FromStore("look up ingredient", err)
		}
		return &ing, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Invalid("ingredient line needs an ingredientId or an ingredientName")
	}

	ing, err := s.findByName(db, name)
	if err != nil || ing != nil {
		return ing, err
	}

	// Insert-or-fetch: the unique index on name decides concurrent creations
	// and the loser re-reads the winner's row.
	created := model.Ingredient{Name: name}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&created)
	if res.Error != nil {
		return nil, apperr.FromStore("create ingredient", res.Error)
	}
	if res.RowsAffected == 1 && created.ID != 0 {
		s.log.Debug("Created ingredient", "ingredient_id", created.ID, "name", name)
		return &created, nil
	}

	ing, err = s.findByName(db, name)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, apperr.Store("create ingredient", errors.New("ingredient vanished after conflicting insert"))
	}
	return ing, nil
}

func (s *IngredientService) findByName(db *gorm.DB, name string) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := db.Where("name = ?", name).Take(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromStore("look up ingredient", err)
	}
	return &ing, nil
}

// List returns every ingredient ordered by name
func (s *IngredientService) List(ctx context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, apperr.FromStore("list ingredients", err)
	}
	return out, nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*model.Ingredient, error) {
	return s.Resolve(ctx, nil, &id, "")
}

// Create adds a new ingredient. A taken name is a conflict.
func (s *IngredientService) Create(ctx context.Context, in IngredientInput) (*model.Ingredient, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var ing *model.Ingredient
	err := s.txr.InTx(ctx, func(tx *gorm.DB) error {
		existing, err := s.findByName(tx, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("ingredient", in.Name)
		}
		ing = &model.Ingredient{Name: in.Name}
		if err := tx.Create(ing).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("ingredient", in.Name)
			}
			return apperr.FromStore("create ingredient", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("create ingredient", err)
	}
	s.log.Info("Ingredient created", "ingredient_id", ing.ID, "name", ing.Name)
	return ing, nil
}

// Update renames an ingredient. Renaming to its own name succeeds untouched.
func (s *IngredientService) Update(ctx context.Context, id uint, in IngredientInput) (*model.Ingredient, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var ing model.Ingredient
	err := s.txr.InTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Take(&ing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("ingredient", id)
			}
			return apperr.FromStore("look up ingredient", err)
		}
		if ing.Name == in.Name {
			return nil
		}
		other, err := s.findByName(tx, in.Name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != ing.ID {
			return apperr.Conflict("ingredient", in.Name)
		}
		if err := tx.Model(&ing).Update("name", in.Name).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("ingredient", in.Name)
			}
			return apperr.FromStore("update ingredient", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("update ingredient", err)
	}
	return &ing, nil
}

// Delete removes an ingredient that no recipe references.
func (s *IngredientService) Delete(ctx context.Context, id uint) error {
	err := s.txr.InTx(ctx, func(tx *gorm.DB) error {
		var ing model.Ingredient
		if err := tx.Take(&ing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("ingredient", id)
			}
			return apperr.FromStore("look up ingredient", err)
		}
		var refs int64
		if err := tx.Model(&model.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&refs).Error; err != nil {
			return apperr.FromStore("count ingredient references", err)
		}
		if refs > 0 {
			return apperr.InUse("ingredient", id)
		}
		if err := tx.Delete(&ing).Error; err != nil {
			return apperr.FromStore("delete ingredient", err)
		}
		return nil
	})
	if err != nil {
		return apperr.FromStore("delete ingredient", err)
	}
	s.log.Info("Ingredient deleted", "ingredient_id", id)
	return nil
}
