package recipes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecipeVersion is an append-only snapshot of the submitted aggregate, one per successful write.
type RecipeVersion struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_version,priority:1" json:"recipe_id"`
	Version  int            `gorm:"column:version;not null;uniqueIndex:idx_recipe_version,priority:2" json:"version"`
	Snapshot datatypes.JSON `gorm:"column:snapshot;type:jsonb" json:"snapshot"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (RecipeVersion) TableName() string { return "recipe_version" }

func (v *RecipeVersion) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
