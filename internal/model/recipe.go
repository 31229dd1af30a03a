package model

import (
	"time"
)

type Recipe struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	Name              string             `gorm:"size:255;not null" json:"name"`
	Description       string             `gorm:"type:text;not null" json:"description"`
	Instructions      *string            `gorm:"type:text" json:"instructions"`
	IsHealthy         bool               `gorm:"not null" json:"isHealthy"`
	IsFavorite        bool               `gorm:"not null" json:"isFavorite"`
	CategoryID        uint               `gorm:"not null;index" json:"categoryId"`
	Category          Category           `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Image             *string            `gorm:"size:1024" json:"image"`
	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}
