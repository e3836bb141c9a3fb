package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/recipebook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/recipebook-backend/internal/http/middleware"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware
	RecipeHandler  *httpH.RecipeHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "recipebook-backend"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Recipes
		if cfg.RecipeHandler != nil {
			protected.GET("/recipes", cfg.RecipeHandler.ListRecipes)
			protected.POST("/recipes", cfg.RecipeHandler.CreateRecipe)
			protected.GET("/recipes/:id", cfg.RecipeHandler.GetRecipe)
			protected.PUT("/recipes/:id", cfg.RecipeHandler.UpdateRecipe)
			protected.DELETE("/recipes/:id", cfg.RecipeHandler.DeleteRecipe)
			protected.GET("/tags", cfg.RecipeHandler.ListTags)
		}
	}

	return r
}
