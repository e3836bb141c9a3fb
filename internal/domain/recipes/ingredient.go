package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Unit       *string   `gorm:"column:unit" json:"unit,omitempty"`
	OrderIndex int       `gorm:"column:order_index;not null" json:"order_index"`
	Notes      *string   `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Ingredient) TableName() string { return "recipe_ingredient" }

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
