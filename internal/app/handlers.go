package app

import (
	httpH "github.com/yungbote/readbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/readbridge-backend/internal/http/middleware"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Auth           *httpH.AuthHandler
	User           *httpH.UserHandler
	Content        *httpH.ContentHandler
	Behavior       *httpH.BehaviorHandler
	Recommendation *httpH.RecommendationHandler
	Progress       *httpH.ProgressHandler
}

func wireHandlers(serviceset Services) Handlers {
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		Auth:           httpH.NewAuthHandler(serviceset.Auth),
		User:           httpH.NewUserHandler(serviceset.User, serviceset.Profile),
		Content:        httpH.NewContentHandler(serviceset.Content, serviceset.Adaptation),
		Behavior:       httpH.NewBehaviorHandler(serviceset.Behavior),
		Recommendation: httpH.NewRecommendationHandler(serviceset.Recommendation),
		Progress:       httpH.NewProgressHandler(serviceset.Progress),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, serviceset.Auth)
}
