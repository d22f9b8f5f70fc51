package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// LevelView is one per-language estimate with its derived tier.
type LevelView struct {
	Language        string  `json:"language"`
	Level           float64 `json:"level"`
	Tier            string  `json:"tier"`
	Confidence      float64 `json:"confidence"`
	AssessmentCount int     `json:"assessment_count"`
}

// ProfileView is the assembled user model returned to callers.
type ProfileView struct {
	UserID                uuid.UUID                               `json:"user_id"`
	Levels                []LevelView                             `json:"levels"`
	TopicPreferences      []profile.TopicPreference               `json:"topic_preferences"`
	ContextualPreferences map[string]profile.ContextualPreference `json:"contextual_preferences,omitempty"`
	EvolutionHistory      []profile.EvolutionEvent                `json:"evolution_history,omitempty"`
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.ReadingProfileRepo
	levelRepo   repos.ReadingLevelRepo
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.ReadingProfileRepo,
	levelRepo repos.ReadingLevelRepo,
) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		userRepo:    userRepo,
		profileRepo: profileRepo,
		levelRepo:   levelRepo,
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	u, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.New(http.StatusNotFound, "user_not_found", fmt.Errorf("user %s not found", userID))
	}

	view := &ProfileView{UserID: userID}

	levels, err := s.levelRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range levels {
		est := profile.LevelEstimate{Language: analysis.Language(row.Language), Level: row.Level}
		view.Levels = append(view.Levels, LevelView{
			Language:        row.Language,
			Level:           row.Level,
			Tier:            est.Tier().String(),
			Confidence:      row.Confidence,
			AssessmentCount: row.AssessmentCount,
		})
	}

	row, err := s.profileRepo.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		if view.TopicPreferences, err = decodeTopicPreferences(row.TopicPreferences); err != nil {
			return nil, err
		}
		if view.ContextualPreferences, err = decodeContextualPreferences(row.ContextualPreferences); err != nil {
			return nil, err
		}
		if view.EvolutionHistory, err = decodeEvolutionHistory(row.EvolutionHistory); err != nil {
			return nil, err
		}
	}
	return view, nil
}
