package recipes

import (
	"time"

	"github.com/google/uuid"
)

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// RecipeChangedEvent tells read views which recipe pages went stale after a commit.
type RecipeChangedEvent struct {
	Action     ChangeAction `json:"action"`
	UserID     uuid.UUID    `json:"userId"`
	RecipeID   uuid.UUID    `json:"recipeId"`
	Version    int          `json:"version,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// Paths lists the read paths invalidated by the change.
func (e RecipeChangedEvent) Paths() []string {
	if e.RecipeID == uuid.Nil {
		return []string{"/recipes"}
	}
	return []string{"/recipes", "/recipes/" + e.RecipeID.String()}
}
