package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/repos/recipes"
	"github.com/yungbote/recipebook-backend/internal/data/repos/user"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type RecipeRepo = recipes.RecipeRepo
type RecipeListFilter = recipes.ListFilter
type IngredientRepo = recipes.IngredientRepo
type StepRepo = recipes.StepRepo
type SourceInfoRepo = recipes.SourceInfoRepo
type TagRepo = recipes.TagRepo
type RecipeTagRepo = recipes.RecipeTagRepo
type RecipeRelationRepo = recipes.RecipeRelationRepo
type RecipeVersionRepo = recipes.RecipeVersionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return recipes.NewRecipeRepo(db, baseLog)
}
func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return recipes.NewIngredientRepo(db, baseLog)
}
func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	return recipes.NewStepRepo(db, baseLog)
}
func NewSourceInfoRepo(db *gorm.DB, baseLog *logger.Logger) SourceInfoRepo {
	return recipes.NewSourceInfoRepo(db, baseLog)
}
func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return recipes.NewTagRepo(db, baseLog)
}
func NewRecipeTagRepo(db *gorm.DB, baseLog *logger.Logger) RecipeTagRepo {
	return recipes.NewRecipeTagRepo(db, baseLog)
}
func NewRecipeRelationRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRelationRepo {
	return recipes.NewRecipeRelationRepo(db, baseLog)
}
func NewRecipeVersionRepo(db *gorm.DB, baseLog *logger.Logger) RecipeVersionRepo {
	return recipes.NewRecipeVersionRepo(db, baseLog)
}

// RecipeRepos bundles every table repo the recipe aggregate and read paths touch.
type RecipeRepos struct {
	Users       UserRepo
	Recipes     RecipeRepo
	Ingredients IngredientRepo
	Steps       StepRepo
	SourceInfos SourceInfoRepo
	Tags        TagRepo
	RecipeTags  RecipeTagRepo
	Relations   RecipeRelationRepo
	Versions    RecipeVersionRepo
}

func NewRecipeRepos(db *gorm.DB, baseLog *logger.Logger) RecipeRepos {
	return RecipeRepos{
		Users:       NewUserRepo(db, baseLog),
		Recipes:     NewRecipeRepo(db, baseLog),
		Ingredients: NewIngredientRepo(db, baseLog),
		Steps:       NewStepRepo(db, baseLog),
		SourceInfos: NewSourceInfoRepo(db, baseLog),
		Tags:        NewTagRepo(db, baseLog),
		RecipeTags:  NewRecipeTagRepo(db, baseLog),
		Relations:   NewRecipeRelationRepo(db, baseLog),
		Versions:    NewRecipeVersionRepo(db, baseLog),
	}
}
