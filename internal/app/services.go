package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/aggregates"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Recipes services.RecipeService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	agg := aggregates.NewRecipeAggregate(aggregates.RecipeAggregateDepsFromRepos(aggregates.BaseDeps{
		DB:          db,
		Log:         log,
		Hooks:       aggregates.NewObservabilityHooks(metrics),
		LockTimeout: cfg.AggregateLockTimeout,
	}, reposet.Recipes))
	return Services{
		Auth:    services.NewAuthService(log, reposet.Recipes.Users, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Recipes: services.NewRecipeService(db, log, agg, reposet.Recipes, clients.Revalidation),
	}
}
