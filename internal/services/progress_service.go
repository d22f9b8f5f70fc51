package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"
	"github.com/yungbote/readbridge-backend/internal/modules/progress"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// ProgressAnalytics is the full tracker output for one user.
type ProgressAnalytics struct {
	PerformanceTrend progress.Trend                     `json:"performance_trend"`
	DifficultyTrend  progress.Trend                     `json:"difficulty_trend"`
	Status           string                             `json:"status"`
	Recommendation   progress.ProgressionRecommendation `json:"recommendation"`
	Confidence       float64                            `json:"confidence"`
	Milestones       []progress.Milestone               `json:"milestones"`
	LanguageAdvice   map[string]string                  `json:"language_recommendations"`
	Strategy         progress.LearningStrategy          `json:"strategy"`
	DifficultyAction string                             `json:"difficulty_adjustment"`
	SampleCount      int                                `json:"sample_count"`
}

type ProgressService interface {
	Analytics(ctx context.Context, userID uuid.UUID) (*ProgressAnalytics, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	pol          policy.Policy
	behaviorRepo repos.ReadingBehaviorRepo
	itemRepo     repos.ContentItemRepo
	analysisRepo repos.ContentAnalysisRepo
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	pol policy.Policy,
	behaviorRepo repos.ReadingBehaviorRepo,
	itemRepo repos.ContentItemRepo,
	analysisRepo repos.ContentAnalysisRepo,
) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		pol:          pol,
		behaviorRepo: behaviorRepo,
		itemRepo:     itemRepo,
		analysisRepo: analysisRepo,
	}
}

// Most recent sessions considered for trend math.
const progressWindow = 50

func (s *progressService) Analytics(ctx context.Context, userID uuid.UUID) (*ProgressAnalytics, error) {
	dbc := dbctx.Context{Ctx: ctx}
	sessions, err := s.behaviorRepo.ListByUserAsc(dbc, userID, progressWindow)
	if err != nil {
		return nil, err
	}

	var (
		performances  []float64
		difficulties  []float64
		languageStats = map[string]progress.SeriesStat{}
		topicStats    = map[string]progress.SeriesStat{}
		langPerf      = map[string]*langAccumulator{}
	)

	for _, sess := range sessions {
		item, err := s.itemRepo.GetByID(dbc, sess.ContentItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		lang, err := analysis.ParseLanguage(item.Language)
		if err != nil {
			continue
		}
		level, err := analysis.ParseLevel(item.ReadingLevel)
		if err != nil {
			level = analysis.LevelIntermediate
		}

		perf := profile.PerformanceScore(sessionMetrics(sess, lang), s.pol.Performance)
		difficulty := level.Midpoint()

		performances = append(performances, perf)
		difficulties = append(difficulties, difficulty)

		stat := languageStats[string(lang)]
		stat.Scores = append(stat.Scores, perf)
		languageStats[string(lang)] = stat

		acc := langPerf[string(lang)]
		if acc == nil {
			acc = &langAccumulator{}
			langPerf[string(lang)] = acc
		}
		acc.add(perf, difficulty)

		for _, topic := range s.sessionTopics(dbc, sess.ContentItemID) {
			ts := topicStats[topic]
			ts.Scores = append(ts.Scores, perf)
			topicStats[topic] = ts
		}
	}

	eps := s.pol.Progression.SlopeEpsilon
	perfTrend := progress.ComputeTrend(performances, eps)
	diffTrend := progress.ComputeTrend(difficulties, eps)

	current := 0.0
	if len(performances) > 0 {
		current = performances[len(performances)-1]
	}

	out := &ProgressAnalytics{
		PerformanceTrend: perfTrend,
		DifficultyTrend:  diffTrend,
		Status:           progress.AssessProgressionStatus(perfTrend, diffTrend),
		Recommendation:   progress.GenerateProgressionRecommendation(perfTrend, diffTrend, current, s.pol.Progression),
		Confidence:       progress.ProgressionConfidence(performances, difficulties, s.pol.Progression),
		Milestones:       progress.IdentifyLearningMilestones(languageStats, topicStats, s.pol.Progression),
		LanguageAdvice:   progress.GenerateLanguageLearningRecommendations(flattenLangPerf(langPerf), s.pol.Progression),
		Strategy:         progress.DetermineOverallLearningStrategy(languageStats, topicStats, s.pol.Progression),
		DifficultyAction: progress.SuggestDifficultyAdjustment(current, perfTrend, s.pol.Progression),
		SampleCount:      len(performances),
	}
	return out, nil
}

func (s *progressService) sessionTopics(dbc dbctx.Context, contentID uuid.UUID) []string {
	snap, err := s.analysisRepo.GetByContentID(dbc, contentID)
	if err != nil || snap == nil {
		return nil
	}
	var topics []analysis.Topic
	if err := json.Unmarshal(snap.Topics, &topics); err != nil {
		return nil
	}
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Topic)
	}
	return out
}

func sessionMetrics(sess *types.ReadingBehavior, lang analysis.Language) profile.BehaviorMetrics {
	var pauses []PauseEvent
	_ = json.Unmarshal(sess.Pauses, &pauses)
	var interactions []InteractionEvent
	_ = json.Unmarshal(sess.Interactions, &interactions)

	var pauseSeconds float64
	for _, p := range pauses {
		pauseSeconds += p.DurationSeconds
	}
	return profile.BehaviorMetrics{
		Language:          lang,
		CompletionRate:    sess.CompletionRate,
		ReadingSpeed:      sess.ReadingSpeed,
		PauseCount:        len(pauses),
		TotalPauseSeconds: pauseSeconds,
		SessionSeconds:    sess.EndedAt.Sub(sess.StartedAt).Seconds(),
		InteractionCount:  len(interactions),
	}
}

type langAccumulator struct {
	perfSum, diffSum float64
	n                int
}

func (a *langAccumulator) add(perf, diff float64) {
	a.perfSum += perf
	a.diffSum += diff
	a.n++
}

func flattenLangPerf(in map[string]*langAccumulator) map[string]progress.LanguagePerformance {
	out := make(map[string]progress.LanguagePerformance, len(in))
	for lang, acc := range in {
		if acc.n == 0 {
			continue
		}
		out[lang] = progress.LanguagePerformance{
			AveragePerformance: acc.perfSum / float64(acc.n),
			AverageDifficulty:  acc.diffSum / float64(acc.n),
			Samples:            acc.n,
		}
	}
	return out
}
