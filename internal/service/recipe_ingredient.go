package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/model"
)

// RecipeIngredientService writes and reads the ingredient associations of a recipe.
type RecipeIngredientService struct {
	db          *gorm.DB
	txr         *TxRunner
	ingredients *IngredientService
	log         *logger.Logger
}

func NewRecipeIngredientService(db *gorm.DB, ingredients *IngredientService, log *logger.Logger) *RecipeIngredientService {
	return &RecipeIngredientService{
		db:          db,
		txr:         NewTxRunner(db),
		ingredients: ingredients,
		log:         log.With("service", "RecipeIngredientService"),
	}
}

// ReplaceAll swaps the association set of recipeID for lines. Lines resolving
// to the same ingredient collapse into one association, the last one winning.
// An empty lines clears the set.
func (s *RecipeIngredientService) ReplaceAll(ctx context.Context, tx *gorm.DB, recipeID uint, lines []IngredientLine) ([]model.RecipeIngredient, error) {
	for i := range lines {
		if err := validateInput(lines[i]); err != nil {
			return nil, err
		}
	}

	db := conn(ctx, s.db, tx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return nil, apperr.FromStore("clear recipe ingredients", err)
	}

	rows := make([]model.RecipeIngredient, 0, len(lines))
	pos := make(map[model.RecipeIngredientKey]int, len(lines))
	for _, line := range lines {
		ing, err := s.ingredients.Resolve(ctx, tx, line.IngredientID, line.IngredientName)
		if err != nil {
			return nil, err
		}
		row := newAssociation(recipeID, ing, line)
		if i, ok := pos[row.Key()]; ok {
			rows[i] = row
			continue
		}
		pos[row.Key()] = len(rows)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	if err := db.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, apperr.FromStore("insert recipe ingredients", err)
	}
	return rows, nil
}

// List returns the associations of recipeID sorted by ingredient name.
func (s *RecipeIngredientService) List(ctx context.Context, recipeID uint) ([]IngredientView, error) {
	db := s.db.WithContext(ctx)
	if err := requireRecipe(db, recipeID); err != nil {
		return nil, err
	}
	var rows []model.RecipeIngredient
	if err := db.Preload("Ingredient").Where("recipe_id = ?", recipeID).Find(&rows).Error; err != nil {
		return nil, apperr.FromStore("list recipe ingredients", err)
	}
	out := make([]IngredientView, 0, len(rows))
	for i := range rows {
		out = append(out, newIngredientView(&rows[i]))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IngredientName != out[j].IngredientName {
			return out[i].IngredientName < out[j].IngredientName
		}
		return out[i].IngredientID < out[j].IngredientID
	})
	return out, nil
}

// Add upserts a single association; quantity and unit are replaced when the
// recipe already lists the ingredient.
func (s *RecipeIngredientService) Add(ctx context.Context, recipeID uint, line IngredientLine) (*IngredientView, error) {
	if err := validateInput(line); err != nil {
		return nil, err
	}
	var view IngredientView
	err := s.txr.InTx(ctx, func(tx *gorm.DB) error {
		if err := requireRecipe(tx, recipeID); err != nil {
			return err
		}
		ing, err := s.ingredients.Resolve(ctx, tx, line.IngredientID, line.IngredientName)
		if err != nil {
			return err
		}
		row := newAssociation(recipeID, ing, line)
		err = tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit"}),
		}).Create(&row).Error
		if err != nil {
			return apperr.FromStore("add recipe ingredient", err)
		}
		view = newIngredientView(&row)
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("add recipe ingredient", err)
	}
	s.log.Debug("Recipe ingredient saved", "recipe_id", recipeID, "ingredient_id", view.IngredientID)
	return &view, nil
}

// Clear removes every association of recipeID.
func (s *RecipeIngredientService) Clear(ctx context.Context, recipeID uint) error {
	err := s.txr.InTx(ctx, func(tx *gorm.DB) error {
		if err := requireRecipe(tx, recipeID); err != nil {
			return err
		}
		_, err := s.ReplaceAll(ctx, tx, recipeID, nil)
		return err
	})
	return apperr.FromStore("clear recipe ingredients", err)
}

// newAssociation builds the row for a validated line.
func newAssociation(recipeID uint, ing *model.Ingredient, line IngredientLine) model.RecipeIngredient {
	return model.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ing.ID,
		Quantity:     *line.Quantity,
		Unit:         line.Unit,
		Ingredient:   *ing,
	}
}

func requireRecipe(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperr.FromStore("look up recipe", err)
	}
	if count == 0 {
		return apperr.NotFound("recipe", id)
	}
	return nil
}

// errNotFound reports whether err is gorm's missing-row sentinel.
func errNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
