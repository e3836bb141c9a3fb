package app

import (
	"gorm.io/gorm"

	httpserver "github.com/yungbote/recipebook-backend/internal/http"
	httpH "github.com/yungbote/recipebook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/recipebook-backend/internal/http/middleware"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Recipe *httpH.RecipeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Recipe: httpH.NewRecipeHandler(services.Recipes),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		RecipeHandler:  handlers.Recipe,
		HealthHandler:  handlers.Health,
	})
}
