package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/model"
)

// CategoryService reads the category catalogue.
type CategoryService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryService(db *gorm.DB, log *logger.Logger) *CategoryService {
	return &CategoryService{db: db, log: log.With("service", "CategoryService")}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, apperr.FromStore("list categories", err)
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return findCategory(s.db.WithContext(ctx), id)
}

// Ensure returns the category called name, creating it when missing. Used for seeding.
func (s *CategoryService) Ensure(ctx context.Context, name, description string) (*model.Category, bool, error) {
	var c model.Category
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&c).Error
	if err == nil {
		return &c, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.FromStore("look up category", err)
	}
	c = model.Category{Name: name, Description: description}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, false, apperr.FromStore("create category", err)
	}
	s.log.Info("Category created", "category_id", c.ID, "name", name)
	return &c, true, nil
}

func findCategory(db *gorm.DB, id uint) (*model.Category, error) {
	var c model.Category
	if err := db.Take(&c, id).Error; err != nil {
		if errNotFound(err) {
			return nil, apperr.NotFound("category", id)
		}
		return nil, apperr.FromStore("look up category", err)
	}
	return &c, nil
}
