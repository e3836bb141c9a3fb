package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type Repos struct {
	Recipes repos.RecipeRepos
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{Recipes: repos.NewRecipeRepos(db, log)}
}
