package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/cache"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// PauseEvent and InteractionEvent mirror the jsonb session payloads.
type PauseEvent struct {
	At              time.Time `json:"at"`
	DurationSeconds float64   `json:"duration_seconds"`
}

type InteractionEvent struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

// SessionContext is the situational payload attached to a session.
type SessionContext struct {
	AvailableMinutes float64 `json:"available_minutes,omitempty"`
	TimeOfDay        string  `json:"time_of_day,omitempty"`
	Mood             string  `json:"mood,omitempty"`
	Location         string  `json:"location,omitempty"`
}

// Key collapses the context into the profile's contextual-preference
// bucket key.
func (c SessionContext) Key() string {
	if c.TimeOfDay == "" && c.Location == "" {
		return ""
	}
	if c.Location == "" {
		return c.TimeOfDay
	}
	if c.TimeOfDay == "" {
		return c.Location
	}
	return c.TimeOfDay + "_" + c.Location
}

// RecordBehaviorInput is one finished reading session.
type RecordBehaviorInput struct {
	UserID         uuid.UUID
	ContentID      uuid.UUID
	StartedAt      time.Time
	EndedAt        time.Time
	CompletionRate float64
	ReadingSpeed   float64
	Pauses         []PauseEvent
	Interactions   []InteractionEvent
	Context        SessionContext
}

// RecordBehaviorOutput reports what the event did to the user model.
type RecordBehaviorOutput struct {
	BehaviorID       uuid.UUID                `json:"behavior_id"`
	PerformanceScore float64                  `json:"performance_score"`
	Level            profile.LevelEstimate    `json:"level"`
	EvolutionEvents  []profile.EvolutionEvent `json:"evolution_events,omitempty"`
}

// BehaviorService folds reading sessions into the user model. Events
// for the same user serialize on the reading-level row lock, so
// concurrent submissions apply one at a time and assessment_count
// advances exactly once per event.
type BehaviorService interface {
	Record(ctx context.Context, in RecordBehaviorInput) (*RecordBehaviorOutput, error)
}

type behaviorService struct {
	db           *gorm.DB
	log          *logger.Logger
	pol          policy.Policy
	cache        cache.Cache
	behaviorRepo repos.ReadingBehaviorRepo
	levelRepo    repos.ReadingLevelRepo
	profileRepo  repos.ReadingProfileRepo
	itemRepo     repos.ContentItemRepo
	analysisRepo repos.ContentAnalysisRepo
}

func NewBehaviorService(
	db *gorm.DB,
	log *logger.Logger,
	pol policy.Policy,
	c cache.Cache,
	behaviorRepo repos.ReadingBehaviorRepo,
	levelRepo repos.ReadingLevelRepo,
	profileRepo repos.ReadingProfileRepo,
	itemRepo repos.ContentItemRepo,
	analysisRepo repos.ContentAnalysisRepo,
) BehaviorService {
	return &behaviorService{
		db:           db,
		log:          log.With("service", "BehaviorService"),
		pol:          pol,
		cache:        c,
		behaviorRepo: behaviorRepo,
		levelRepo:    levelRepo,
		profileRepo:  profileRepo,
		itemRepo:     itemRepo,
		analysisRepo: analysisRepo,
	}
}

func (s *behaviorService) Record(ctx context.Context, in RecordBehaviorInput) (*RecordBehaviorOutput, error) {
	if in.UserID == uuid.Nil || in.ContentID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "behavior_invalid", fmt.Errorf("user id and content id are required"))
	}

	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.itemRepo.GetByID(dbc, in.ContentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apierr.New(http.StatusNotFound, "content_not_found", fmt.Errorf("content %s not found", in.ContentID))
	}
	lang, err := analysis.ParseLanguage(item.Language)
	if err != nil {
		return nil, mapAnalysisError(err)
	}
	contentLevel, err := analysis.ParseLevel(item.ReadingLevel)
	if err != nil {
		// Unanalyzed content still counts as a session; score against
		// the middle of the scale.
		contentLevel = analysis.LevelIntermediate
	}

	snap, err := s.analysisRepo.GetByContentID(dbc, in.ContentID)
	if err != nil {
		return nil, err
	}

	performance := profile.PerformanceScore(s.behaviorMetrics(in, lang), s.pol.Performance)

	var out RecordBehaviorOutput
	for attempt := 1; ; attempt++ {
		out, err = s.recordTx(ctx, in, snap, lang, contentLevel, performance)
		if err == nil {
			break
		}
		if attempt >= recordTxAttempts || !repos.IsRetryable(err) {
			return nil, err
		}
		s.log.Warn("retrying behavior transaction",
			"user_id", in.UserID.String(),
			"attempt", attempt,
			"error", err.Error(),
		)
	}
	out.PerformanceScore = performance

	// Stale recommendations are worse than a recompute.
	if err := s.cache.Invalidate(ctx, recommendationCacheKeys(in.UserID)...); err != nil {
		s.log.Warn("cache invalidation failed", "user_id", in.UserID.String(), "error", err.Error())
	}

	s.log.Info("behavior recorded",
		"user_id", in.UserID.String(),
		"content_id", in.ContentID.String(),
		"performance", performance,
		"assessment_count", out.Level.AssessmentCount,
	)
	return &out, nil
}

// Serialization failures and deadlocks on the level-row lock are safe
// to replay: each attempt starts from a fresh output and rereads state
// inside its own transaction.
const recordTxAttempts = 3

func (s *behaviorService) recordTx(ctx context.Context, in RecordBehaviorInput, snap *types.ContentAnalysis, lang analysis.Language, contentLevel analysis.Level, performance float64) (RecordBehaviorOutput, error) {
	var out RecordBehaviorOutput
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}

		row, err := s.behaviorRow(in)
		if err != nil {
			return err
		}
		if err := s.behaviorRepo.Create(txc, row); err != nil {
			return fmt.Errorf("store behavior: %w", err)
		}
		out.BehaviorID = row.ID

		estimate, err := s.lockedEstimate(txc, in.UserID, lang)
		if err != nil {
			return err
		}
		updated := profile.UpdateReadingLevel(estimate, contentLevel, performance, in.EndedAt, s.pol.LevelUpdate)
		if err := s.persistEstimate(txc, in.UserID, updated); err != nil {
			return fmt.Errorf("persist reading level: %w", err)
		}
		out.Level = updated

		events, err := s.updateProfile(txc, in, snap, performance)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		out.EvolutionEvents = events
		return nil
	})
	if err != nil {
		return RecordBehaviorOutput{}, err
	}
	return out, nil
}

func (s *behaviorService) behaviorMetrics(in RecordBehaviorInput, lang analysis.Language) profile.BehaviorMetrics {
	var pauseSeconds float64
	for _, p := range in.Pauses {
		pauseSeconds += p.DurationSeconds
	}
	return profile.BehaviorMetrics{
		Language:          lang,
		CompletionRate:    in.CompletionRate,
		ReadingSpeed:      in.ReadingSpeed,
		PauseCount:        len(in.Pauses),
		TotalPauseSeconds: pauseSeconds,
		SessionSeconds:    in.EndedAt.Sub(in.StartedAt).Seconds(),
		InteractionCount:  len(in.Interactions),
	}
}

func (s *behaviorService) behaviorRow(in RecordBehaviorInput) (*types.ReadingBehavior, error) {
	pauses, err := json.Marshal(in.Pauses)
	if err != nil {
		return nil, err
	}
	interactions, err := json.Marshal(in.Interactions)
	if err != nil {
		return nil, err
	}
	sctx, err := json.Marshal(in.Context)
	if err != nil {
		return nil, err
	}
	return &types.ReadingBehavior{
		UserID:         in.UserID,
		ContentItemID:  in.ContentID,
		StartedAt:      in.StartedAt,
		EndedAt:        in.EndedAt,
		CompletionRate: in.CompletionRate,
		ReadingSpeed:   in.ReadingSpeed,
		Pauses:         datatypes.JSON(pauses),
		Interactions:   datatypes.JSON(interactions),
		Context:        datatypes.JSON(sctx),
	}, nil
}

func (s *behaviorService) lockedEstimate(txc dbctx.Context, userID uuid.UUID, lang analysis.Language) (profile.LevelEstimate, error) {
	row, err := s.levelRepo.GetForUpdate(txc, userID, string(lang))
	if err != nil {
		return profile.LevelEstimate{}, err
	}
	if row == nil {
		return profile.NewLevelEstimate(lang), nil
	}
	est := profile.LevelEstimate{
		Language:        lang,
		Level:           row.Level,
		Confidence:      row.Confidence,
		AssessmentCount: row.AssessmentCount,
	}
	if row.LastAssessment != nil {
		est.LastAssessment = *row.LastAssessment
	}
	return est, nil
}

func (s *behaviorService) persistEstimate(txc dbctx.Context, userID uuid.UUID, est profile.LevelEstimate) error {
	last := est.LastAssessment
	return s.levelRepo.Upsert(txc, &types.ReadingLevel{
		UserID:          userID,
		Language:        string(est.Language),
		Level:           est.Level,
		Confidence:      est.Confidence,
		AssessmentCount: est.AssessmentCount,
		LastAssessment:  &last,
	})
}

// updateProfile folds the session's topics and context into the stored
// reading profile.
func (s *behaviorService) updateProfile(txc dbctx.Context, in RecordBehaviorInput, snap *types.ContentAnalysis, performance float64) ([]profile.EvolutionEvent, error) {
	row, err := s.profileRepo.GetByUserID(txc, in.UserID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &types.ReadingProfile{UserID: in.UserID}
	}

	prefs, err := decodeTopicPreferences(row.TopicPreferences)
	if err != nil {
		return nil, err
	}
	contextual, err := decodeContextualPreferences(row.ContextualPreferences)
	if err != nil {
		return nil, err
	}
	history, err := decodeEvolutionHistory(row.EvolutionHistory)
	if err != nil {
		return nil, err
	}

	var signals []profile.TopicSignal
	if snap != nil {
		var topics []analysis.Topic
		if err := json.Unmarshal(snap.Topics, &topics); err != nil {
			return nil, fmt.Errorf("decode content topics: %w", err)
		}
		for _, t := range topics {
			signals = append(signals, profile.TopicSignal{
				Topic:      t.Topic,
				Confidence: t.Confidence,
				Engagement: performance,
			})
		}
	}

	prefs, events := profile.UpdatePreferences(prefs, signals, in.EndedAt, s.pol.Preferences)
	history = append(history, events...)

	sessionMinutes := in.EndedAt.Sub(in.StartedAt).Minutes()
	contextual = profile.UpdateContextual(contextual, in.Context.Key(), in.CompletionRate, sessionMinutes)

	if err := encodeProfile(row, prefs, contextual, history); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Upsert(txc, row); err != nil {
		return nil, err
	}
	return events, nil
}

func decodeTopicPreferences(raw datatypes.JSON) ([]profile.TopicPreference, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []profile.TopicPreference
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode topic preferences: %w", err)
	}
	return out, nil
}

func decodeContextualPreferences(raw datatypes.JSON) (map[string]profile.ContextualPreference, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out map[string]profile.ContextualPreference
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode contextual preferences: %w", err)
	}
	return out, nil
}

func decodeEvolutionHistory(raw datatypes.JSON) ([]profile.EvolutionEvent, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []profile.EvolutionEvent
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode evolution history: %w", err)
	}
	return out, nil
}

func encodeProfile(row *types.ReadingProfile, prefs []profile.TopicPreference, contextual map[string]profile.ContextualPreference, history []profile.EvolutionEvent) error {
	rawPrefs, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	rawCtx, err := json.Marshal(contextual)
	if err != nil {
		return err
	}
	rawHist, err := json.Marshal(history)
	if err != nil {
		return err
	}
	row.TopicPreferences = datatypes.JSON(rawPrefs)
	row.ContextualPreferences = datatypes.JSON(rawCtx)
	row.EvolutionHistory = datatypes.JSON(rawHist)
	if len(row.ContentTypePreferences) == 0 {
		row.ContentTypePreferences = datatypes.JSON([]byte("{}"))
	}
	return nil
}

func recommendationCacheKeys(userID uuid.UUID) []string {
	return []string{
		"rec:contextual:" + userID.String(),
		"rec:discovery:" + userID.String(),
	}
}
