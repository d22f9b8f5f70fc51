package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/readbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/readbridge-backend/internal/http/middleware"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler         *httpH.HealthHandler
	AuthHandler           *httpH.AuthHandler
	UserHandler           *httpH.UserHandler
	ContentHandler        *httpH.ContentHandler
	BehaviorHandler       *httpH.BehaviorHandler
	RecommendationHandler *httpH.RecommendationHandler
	ProgressHandler       *httpH.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/user/name", cfg.UserHandler.ChangeName)
			protected.PATCH("/user/language", cfg.UserHandler.ChangePrimaryLanguage)
			protected.GET("/profile", cfg.UserHandler.GetProfile)
		}

		if cfg.ContentHandler != nil {
			protected.POST("/content", cfg.ContentHandler.Ingest)
			protected.GET("/content", cfg.ContentHandler.List)
			protected.POST("/content/reanalyze", cfg.ContentHandler.Reanalyze)
			protected.GET("/content/:id", cfg.ContentHandler.Get)
			protected.POST("/content/:id/analyze", cfg.ContentHandler.Analyze)
			protected.POST("/content/:id/adapt", cfg.ContentHandler.Adapt)
			protected.GET("/content/:id/adaptations", cfg.ContentHandler.AdaptationHistory)
		}

		if cfg.BehaviorHandler != nil {
			protected.POST("/behavior", cfg.BehaviorHandler.Record)
		}

		if cfg.RecommendationHandler != nil {
			protected.GET("/recommendations", cfg.RecommendationHandler.GetContextual)
			protected.GET("/recommendations/discovery", cfg.RecommendationHandler.GetDiscovery)
		}

		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.GetAnalytics)
		}
	}

	return r
}
