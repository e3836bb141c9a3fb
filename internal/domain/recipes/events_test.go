package recipes

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecipeChangedEventPaths(t *testing.T) {
	id := uuid.New()
	got := RecipeChangedEvent{Action: ChangeUpdated, RecipeID: id}.Paths()
	if len(got) != 2 || got[0] != "/recipes" || got[1] != "/recipes/"+id.String() {
		t.Fatalf("paths: got=%v", got)
	}
	if got := (RecipeChangedEvent{Action: ChangeCreated}).Paths(); len(got) != 1 {
		t.Fatalf("paths without id: want=1 got=%v", got)
	}
}
