package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	"github.com/yungbote/readbridge-backend/internal/modules/adaptation"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/platform/cache"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
	"github.com/yungbote/readbridge-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	User           services.UserService
	Content        services.ContentService
	Adaptation     services.AdaptationService
	Behavior       services.BehaviorService
	Profile        services.ProfileService
	Progress       services.ProgressService
	Recommendation services.RecommendationService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	pol policy.Policy,
	reposet *repos.Repos,
	c cache.Cache,
	embedder analysis.Embedder,
) Services {
	analyzer := analysis.NewAnalyzer(embedder, pol.Readability)
	adapter := adaptation.NewAdapter(pol.Readability)

	return Services{
		Auth:           services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:           services.NewUserService(log, reposet.User),
		Content:        services.NewContentService(db, log, analyzer, reposet.ContentItem, reposet.ContentAnalysis),
		Adaptation:     services.NewAdaptationService(db, log, adapter, reposet.ContentItem, reposet.ContentAdaptation),
		Behavior:       services.NewBehaviorService(db, log, pol, c, reposet.ReadingBehavior, reposet.ReadingLevel, reposet.ReadingProfile, reposet.ContentItem, reposet.ContentAnalysis),
		Profile:        services.NewProfileService(db, log, reposet.User, reposet.ReadingProfile, reposet.ReadingLevel),
		Progress:       services.NewProgressService(db, log, pol, reposet.ReadingBehavior, reposet.ContentItem, reposet.ContentAnalysis),
		Recommendation: services.NewRecommendationService(log, pol, c, reposet.User, reposet.ContentItem, reposet.ReadingBehavior, reposet.ReadingProfile, reposet.ReadingLevel),
	}
}
