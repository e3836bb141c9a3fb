package recipes

import (
	"time"

	"github.com/google/uuid"
)

// RecipeDetail is the owner-scoped read model of a whole aggregate.
type RecipeDetail struct {
	Recipe      Recipe           `json:"recipe"`
	Ingredients []Ingredient     `json:"ingredients"`
	Steps       []Step           `json:"steps"`
	SourceInfo  *SourceInfo      `json:"source_info,omitempty"`
	Tags        []Tag            `json:"tags"`
	Children    []RecipeRelation `json:"children"`
}

// RecipeListItem is one row of a user's recipe book listing.
type RecipeListItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Tags      []Tag     `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}
