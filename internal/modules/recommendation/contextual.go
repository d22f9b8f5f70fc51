package recommendation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"

	"github.com/google/uuid"
)

// Candidate is one content item under consideration, already analyzed.
type Candidate struct {
	ContentID   uuid.UUID
	Title       string
	Language    analysis.Language
	Level       analysis.Level
	Topics      []analysis.Topic
	WordCount   int
	PublishedAt time.Time
}

// UserModel is the slice of the user profile the ranker needs.
type UserModel struct {
	Level       float64
	Preferences []profile.TopicPreference
	Contextual  map[string]profile.ContextualPreference
}

// Context is the situational input for one request.
type Context struct {
	// Minutes the user says they have. Zero means unspecified.
	AvailableMinutes float64
	// Free-form context key like "evening_mobile"; matched against the
	// profile's contextual preference stats.
	Key string
}

// Recommendation is one ranked result with its score breakdown and a
// human-readable reason.
type Recommendation struct {
	ContentID        uuid.UUID `json:"content_id"`
	Title            string    `json:"title"`
	Score            float64   `json:"score"`
	TopicScore       float64   `json:"topic_score"`
	LevelScore       float64   `json:"level_score"`
	ContextScore     float64   `json:"context_score"`
	EstimatedMinutes float64   `json:"estimated_minutes"`
	Reason           string    `json:"recommendation_reason"`
}

// Rank scores every candidate against the user model and context and
// returns the top results, at most limit. A pool smaller than limit
// returns the whole pool. Ties break toward more recent content.
func Rank(candidates []Candidate, user UserModel, ctx Context, limit int, p policy.RecommendationPolicy) []Recommendation {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	scored := make([]Recommendation, 0, len(candidates))
	order := make(map[uuid.UUID]time.Time, len(candidates))
	for _, c := range candidates {
		topic := topicOverlap(user.Preferences, c.Topics)
		level := levelFit(user.Level, c.Level, p)
		context := contextFit(user, ctx, c, p)

		rec := Recommendation{
			ContentID:        c.ContentID,
			Title:            c.Title,
			TopicScore:       topic,
			LevelScore:       level,
			ContextScore:     context,
			EstimatedMinutes: estimatedMinutes(c.WordCount, p),
		}
		rec.Score = topic*p.TopicWeight + level*p.LevelWeight + context*p.ContextWeight
		rec.Reason = reasonFor(rec, c)
		scored = append(scored, rec)
		order[c.ContentID] = c.PublishedAt
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return order[scored[i].ContentID].After(order[scored[j].ContentID])
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// topicOverlap is a weighted dot product between the user's topic
// weights and the candidate's topic confidences, normalized to [0,1]
// by the candidate's total confidence mass.
func topicOverlap(prefs []profile.TopicPreference, topics []analysis.Topic) float64 {
	if len(topics) == 0 {
		return 0
	}
	var dot, mass float64
	for _, t := range topics {
		dot += profile.PreferenceWeight(prefs, t.Topic) * t.Confidence
		mass += t.Confidence
	}
	if mass == 0 {
		return 0
	}
	return dot / mass
}

// levelFit penalizes distance between the candidate's difficulty and
// the user's estimate. Too-hard falls off faster than slightly-too-easy;
// frustration costs more than boredom.
func levelFit(userLevel float64, level analysis.Level, p policy.RecommendationPolicy) float64 {
	gap := level.Midpoint() - userLevel
	var penalty float64
	if gap > 0 {
		penalty = gap * p.HardPenaltySlope
	} else {
		penalty = -gap * p.EasyPenaltySlope
	}
	return math.Max(0, 1-penalty)
}

// contextFit blends time fit (does the item fit the stated window) with
// the user's historical completion in this context.
func contextFit(user UserModel, ctx Context, c Candidate, p policy.RecommendationPolicy) float64 {
	timeFit := 1.0
	if ctx.AvailableMinutes > 0 {
		est := estimatedMinutes(c.WordCount, p)
		if est > ctx.AvailableMinutes {
			timeFit = math.Max(0, 1-(est-ctx.AvailableMinutes)/ctx.AvailableMinutes)
		}
	}
	historyFit := 0.5
	if cp, ok := user.Contextual[ctx.Key]; ok && cp.Sessions > 0 {
		historyFit = cp.MeanCompletion
	}
	return 0.6*timeFit + 0.4*historyFit
}

func estimatedMinutes(wordCount int, p policy.RecommendationPolicy) float64 {
	if p.ReadingTimeWPM <= 0 {
		return 0
	}
	return float64(wordCount) / p.ReadingTimeWPM
}

// reasonFor names the dominant scoring factor in reader-facing terms.
func reasonFor(rec Recommendation, c Candidate) string {
	switch {
	case rec.TopicScore >= rec.LevelScore && rec.TopicScore >= rec.ContextScore:
		if top := topTopic(c.Topics); top != "" {
			return fmt.Sprintf("matches your interest in %s", top)
		}
		return "matches your reading interests"
	case rec.LevelScore >= rec.ContextScore:
		return fmt.Sprintf("a good fit for your current reading level (%s)", c.Level)
	default:
		return "fits the time you have available right now"
	}
}

func topTopic(topics []analysis.Topic) string {
	best := ""
	bestConf := 0.0
	for _, t := range topics {
		if t.Confidence > bestConf {
			best, bestConf = t.Topic, t.Confidence
		}
	}
	return best
}
