package recipes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxTitleLength = 255

// Recipe is the aggregate root. Everything in this package except Tag is owned by exactly one Recipe.
type Recipe struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title  string    `gorm:"column:title;size:255;not null" json:"title"`
	Memo   string    `gorm:"column:memo;type:text" json:"memo"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
