package model

// Ingredient is shared between recipes. Names are unique and compared exactly.
type Ingredient struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}
