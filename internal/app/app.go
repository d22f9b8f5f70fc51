package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/db"
	"github.com/yungbote/readbridge-backend/internal/data/repos"
	httpx "github.com/yungbote/readbridge-backend/internal/http"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/observability"
	"github.com/yungbote/readbridge-backend/internal/platform/cache"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpx.Server
	Router   *gin.Engine
	Cfg      Config
	Repos    *repos.Repos
	Services Services
	Cache    cache.Cache

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
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

	pol := policy.Default()
	if cfg.PolicyPath != "" {
		pol, err = policy.Load(cfg.PolicyPath)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("load tuning policy: %w", err)
		}
		log.Info("Tuning policy loaded", "path", cfg.PolicyPath)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	database, err := db.NewDatabaseService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := database.DB()

	var c cache.Cache
	if os.Getenv("REDIS_ADDR") != "" {
		c, err = cache.NewRedisCache(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
	} else {
		log.Info("REDIS_ADDR unset, recommendation caching disabled")
		c = cache.Noop{}
	}

	embedder, err := wireEmbedder(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := repos.New(theDB, log)
	serviceset := wireServices(theDB, log, cfg, pol, reposet, c, embedder)
	handlerset := wireHandlers(serviceset)
	authMW := wireMiddleware(log, serviceset)

	server := httpx.NewServer(httpx.RouterConfig{
		Log:                   log,
		ServiceName:           cfg.ServiceName,
		AllowedOrigins:        cfg.AllowedOrigins,
		AuthMiddleware:        authMW,
		HealthHandler:         handlerset.Health,
		AuthHandler:           handlerset.Auth,
		UserHandler:           handlerset.User,
		ContentHandler:        handlerset.Content,
		BehaviorHandler:       handlerset.Behavior,
		RecommendationHandler: handlerset.Recommendation,
		ProgressHandler:       handlerset.Progress,
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Router:       server.Engine,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Cache:        c,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server starting", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Log.Warn("cache close failed", "error", err.Error())
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err.Error())
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
