package recipes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRelation is a composition edge: the parent uses the child as a component.
// Across one user's recipes these edges must form a DAG with no self-edges.
type RecipeRelation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParentRecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_relation_pair,priority:1" json:"parent_recipe_id"`
	ChildRecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_relation_pair,priority:2;index" json:"child_recipe_id"`
	Quantity       *string   `gorm:"column:quantity" json:"quantity,omitempty"`
	Notes          *string   `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (RecipeRelation) TableName() string { return "recipe_relation" }

func (r *RecipeRelation) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Edge is the (parent, child) projection the graph guard works on.
type Edge struct {
	ParentRecipeID uuid.UUID
	ChildRecipeID  uuid.UUID
}
