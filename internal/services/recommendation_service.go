package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/modules/recommendation"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/cache"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// RecommendationService ranks unread content for a user. Results are
// cached per user and invalidated whenever new behavior lands.
type RecommendationService interface {
	Contextual(ctx context.Context, userID uuid.UUID, reqCtx recommendation.Context, limit int) ([]recommendation.Recommendation, error)
	Discovery(ctx context.Context, userID uuid.UUID, limit int) ([]recommendation.DiscoveryRecommendation, error)
}

type recommendationService struct {
	log          *logger.Logger
	pol          policy.Policy
	cache        cache.Cache
	userRepo     repos.UserRepo
	itemRepo     repos.ContentItemRepo
	behaviorRepo repos.ReadingBehaviorRepo
	profileRepo  repos.ReadingProfileRepo
	levelRepo    repos.ReadingLevelRepo
}

func NewRecommendationService(
	log *logger.Logger,
	pol policy.Policy,
	c cache.Cache,
	userRepo repos.UserRepo,
	itemRepo repos.ContentItemRepo,
	behaviorRepo repos.ReadingBehaviorRepo,
	profileRepo repos.ReadingProfileRepo,
	levelRepo repos.ReadingLevelRepo,
) RecommendationService {
	return &recommendationService{
		log:          log.With("service", "RecommendationService"),
		pol:          pol,
		cache:        c,
		userRepo:     userRepo,
		itemRepo:     itemRepo,
		behaviorRepo: behaviorRepo,
		profileRepo:  profileRepo,
		levelRepo:    levelRepo,
	}
}

// Candidate pool cap per request.
const candidatePoolLimit = 200

func (s *recommendationService) Contextual(ctx context.Context, userID uuid.UUID, reqCtx recommendation.Context, limit int) ([]recommendation.Recommendation, error) {
	// Context-free requests can share a cache slot; contextual ones
	// depend on the moment, skip the cache.
	cacheable := reqCtx == (recommendation.Context{})
	key := "rec:contextual:" + userID.String()
	if cacheable {
		var cached []recommendation.Recommendation
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn("cache read failed", "user_id", userID.String(), "error", err.Error())
		}
		if hit && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	candidates, userModel, err := s.assemble(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked := recommendation.Rank(candidates, userModel, reqCtx, limit, s.pol.Recommendation)

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, ranked); err != nil {
			s.log.Warn("cache write failed", "user_id", userID.String(), "error", err.Error())
		}
	}
	return ranked, nil
}

func (s *recommendationService) Discovery(ctx context.Context, userID uuid.UUID, limit int) ([]recommendation.DiscoveryRecommendation, error) {
	key := "rec:discovery:" + userID.String()
	var cached []recommendation.DiscoveryRecommendation
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn("cache read failed", "user_id", userID.String(), "error", err.Error())
	}
	if hit && len(cached) >= limit {
		return cached[:limit], nil
	}

	candidates, userModel, err := s.assemble(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := recommendation.Discover(candidates, userModel.Preferences, limit, s.pol.Discovery)

	if err := s.cache.SetJSON(ctx, key, results); err != nil {
		s.log.Warn("cache write failed", "user_id", userID.String(), "error", err.Error())
	}
	return results, nil
}

// assemble loads the user model and the unread candidate pool.
func (s *recommendationService) assemble(ctx context.Context, userID uuid.UUID) ([]recommendation.Candidate, recommendation.UserModel, error) {
	dbc := dbctx.Context{Ctx: ctx}

	u, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, recommendation.UserModel{}, err
	}
	if u == nil {
		return nil, recommendation.UserModel{}, apierr.New(http.StatusNotFound, "user_not_found", fmt.Errorf("user %s not found", userID))
	}

	consumed, err := s.behaviorRepo.ListContentIDsByUser(dbc, userID)
	if err != nil {
		return nil, recommendation.UserModel{}, err
	}

	items, err := s.itemRepo.ListWithAnalysis(dbc, repos.ContentListFilter{
		Language:   u.PrimaryLanguage,
		ExcludeIDs: consumed,
		Limit:      candidatePoolLimit,
	})
	if err != nil {
		return nil, recommendation.UserModel{}, err
	}

	candidates := make([]recommendation.Candidate, 0, len(items))
	for _, item := range items {
		level, err := analysis.ParseLevel(item.ReadingLevel)
		if err != nil {
			continue
		}
		c := recommendation.Candidate{
			ContentID:   item.ID,
			Title:       item.Title,
			Language:    analysis.Language(item.Language),
			Level:       level,
			PublishedAt: item.CreatedAt,
		}
		if item.Analysis != nil {
			if err := json.Unmarshal(item.Analysis.Topics, &c.Topics); err != nil {
				s.log.Warn("skipping candidate with malformed topics", "content_id", item.ID.String(), "error", err.Error())
				continue
			}
			c.WordCount = item.Analysis.WordCount
		}
		candidates = append(candidates, c)
	}

	userModel, err := s.userModel(dbc, u)
	if err != nil {
		return nil, recommendation.UserModel{}, err
	}
	return candidates, userModel, nil
}

func (s *recommendationService) userModel(dbc dbctx.Context, u *types.User) (recommendation.UserModel, error) {
	model := recommendation.UserModel{Level: 0.20}

	levelRow, err := s.levelRepo.GetByUserLanguage(dbc, u.ID, u.PrimaryLanguage)
	if err != nil {
		return model, err
	}
	if levelRow != nil {
		model.Level = levelRow.Level
	}

	profileRow, err := s.profileRepo.GetByUserID(dbc, u.ID)
	if err != nil {
		return model, err
	}
	if profileRow != nil {
		if model.Preferences, err = decodeTopicPreferences(profileRow.TopicPreferences); err != nil {
			return model, err
		}
		if model.Contextual, err = decodeContextualPreferences(profileRow.ContextualPreferences); err != nil {
			return model, err
		}
	}
	return model, nil
}
