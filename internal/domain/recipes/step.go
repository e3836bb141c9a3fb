package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Step.StepNumber is 1-based and dense within a recipe.
type Step struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	StepNumber   int       `gorm:"column:step_number;not null" json:"step_number"`
	Instruction  string    `gorm:"column:instruction;type:text;not null" json:"instruction"`
	TimerSeconds *int      `gorm:"column:timer_seconds" json:"timer_seconds,omitempty"`
}

func (Step) TableName() string { return "recipe_step" }

func (s *Step) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
