package domain

import (
	"github.com/yungbote/recipebook-backend/internal/domain/recipes"
	"github.com/yungbote/recipebook-backend/internal/domain/user"
)

type User = user.User

type Recipe = recipes.Recipe
type Ingredient = recipes.Ingredient
type Step = recipes.Step
type SourceInfo = recipes.SourceInfo
type Tag = recipes.Tag
type TagOwnership = recipes.TagOwnership
type RecipeTag = recipes.RecipeTag
type RecipeRelation = recipes.RecipeRelation
type RecipeVersion = recipes.RecipeVersion
type RecipeDetail = recipes.RecipeDetail
type RecipeListItem = recipes.RecipeListItem
type RecipeEdge = recipes.Edge
type RecipeChangedEvent = recipes.RecipeChangedEvent
type RecipeChangeAction = recipes.ChangeAction

const (
	RecipeCreated = recipes.ChangeCreated
	RecipeUpdated = recipes.ChangeUpdated
	RecipeDeleted = recipes.ChangeDeleted
)

// Models lists every persisted model in dependency order for migrations.
func Models() []any {
	return []any{
		&User{},
		&Tag{},
		&Recipe{},
		&Ingredient{},
		&Step{},
		&SourceInfo{},
		&RecipeTag{},
		&RecipeRelation{},
		&RecipeVersion{},
	}
}
