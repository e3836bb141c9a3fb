package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/db"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	httpserver "github.com/yungbote/recipebook-backend/internal/http"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		log.Sync()
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(cfg.MetricsEnabled)

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()
	metrics.RegisterDB(log, theDB, "recipebook")

	clientset, err := wireClients(log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clientset,
		Services:     serviceset,
		Metrics:      metrics,
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP, the optional metrics listener and the revalidation
// forwarder until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Run(gctx, ":"+a.Cfg.Port)
	})
	if addr := strings.TrimSpace(a.Cfg.MetricsAddr); addr != "" && a.Metrics != nil {
		g.Go(func() error {
			return a.Metrics.StartServer(gctx, a.Log, addr)
		})
	}
	if a.Clients.Revalidation != nil {
		// A dead subscriber only costs observability; the API keeps serving.
		err := a.Clients.Revalidation.StartForwarder(gctx, func(evt types.RecipeChangedEvent) {
			a.Log.Debug("recipe revalidation", "action", evt.Action, "recipe_id", evt.RecipeID, "paths", evt.Paths())
			a.Metrics.IncRevalidation(string(evt.Action), "received")
		})
		if err != nil {
			a.Log.Warn("revalidation forwarder not started", "error", err)
		}
	}

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Revalidation != nil {
		if err := a.Clients.Revalidation.Close(); err != nil {
			a.Log.Warn("close revalidation bus", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("close postgres", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
