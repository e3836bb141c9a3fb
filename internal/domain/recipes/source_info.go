package recipes

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourceInfo records where a recipe came from. At most one per recipe.
type SourceInfo struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"recipe_id"`
	BookName   *string   `gorm:"column:book_name" json:"book_name,omitempty"`
	PageNumber *string   `gorm:"column:page_number" json:"page_number,omitempty"`
	URL        *string   `gorm:"column:url;type:text" json:"url,omitempty"`
}

func (SourceInfo) TableName() string { return "recipe_source_info" }

func (s *SourceInfo) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsEmpty reports whether no field carries a non-blank value.
func (s *SourceInfo) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, v := range []*string{s.BookName, s.PageNumber, s.URL} {
		if v != nil && strings.TrimSpace(*v) != "" {
			return false
		}
	}
	return true
}
