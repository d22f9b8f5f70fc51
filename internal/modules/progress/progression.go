package progress

import (
	"fmt"
	"math"
	"sort"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// Status labels for the combined performance/difficulty picture.
const (
	StatusExcellentProgression = "excellent_progression"
	StatusPerformanceImproving = "performance_improving"
	StatusDifficultyAdvancing  = "difficulty_advancing"
	StatusSteadyState          = "steady_state"
	StatusEasingBack           = "easing_back"
	StatusStruggling           = "struggling"
	StatusNeedsSupport         = "needs_support"
)

// AssessProgressionStatus maps the two trend directions onto a status
// label. Total over all nine combinations.
func AssessProgressionStatus(performance, difficulty Trend) string {
	switch performance.Direction {
	case DirectionImproving:
		if difficulty.Direction == DirectionImproving {
			return StatusExcellentProgression
		}
		return StatusPerformanceImproving
	case DirectionDeclining:
		if difficulty.Direction == DirectionDeclining {
			return StatusNeedsSupport
		}
		return StatusStruggling
	default:
		switch difficulty.Direction {
		case DirectionImproving:
			return StatusDifficultyAdvancing
		case DirectionDeclining:
			return StatusEasingBack
		default:
			return StatusSteadyState
		}
	}
}

// Recommendation actions.
const (
	ActionIncreaseDifficulty = "increase_difficulty"
	ActionDecreaseDifficulty = "decrease_difficulty"
	ActionMaintain           = "maintain"
)

// Adjustment magnitudes.
const (
	MagnitudeModerate    = "moderate"
	MagnitudeSignificant = "significant"
	MagnitudeNone        = "none"
)

// ProgressionRecommendation is the actionable output of the tracker.
type ProgressionRecommendation struct {
	Action    string `json:"action"`
	Reason    string `json:"reason"`
	Magnitude string `json:"magnitude"`
}

// GenerateProgressionRecommendation turns current performance and the
// two trends into an action. High performance with non-declining
// difficulty means the user has headroom; low performance means back
// off significantly rather than nibbling.
func GenerateProgressionRecommendation(performance, difficulty Trend, currentPerformance float64, p policy.ProgressionPolicy) ProgressionRecommendation {
	switch {
	case currentPerformance >= p.HighPerformance && difficulty.Direction != DirectionDeclining:
		return ProgressionRecommendation{
			Action:    ActionIncreaseDifficulty,
			Reason:    "consistently strong performance with room to take on harder material",
			Magnitude: MagnitudeModerate,
		}
	case currentPerformance <= p.LowPerformance:
		return ProgressionRecommendation{
			Action:    ActionDecreaseDifficulty,
			Reason:    "performance well below target, easier material will rebuild momentum",
			Magnitude: MagnitudeSignificant,
		}
	case performance.Direction == DirectionDeclining && difficulty.Direction == DirectionImproving:
		return ProgressionRecommendation{
			Action:    ActionMaintain,
			Reason:    "difficulty rising faster than performance, hold level until it stabilizes",
			Magnitude: MagnitudeNone,
		}
	default:
		return ProgressionRecommendation{
			Action:    ActionMaintain,
			Reason:    "performance within the productive range at the current difficulty",
			Magnitude: MagnitudeNone,
		}
	}
}

// ProgressionConfidence quantifies how much to trust the computed
// trends. Below the minimum sample count it returns the policy base
// exactly; that is the expected state for new users, not an error.
// Otherwise confidence grows with sample count and shrinks with
// performance variance, capped below 1.
func ProgressionConfidence(performanceScores, difficultyLevels []float64, p policy.ProgressionPolicy) float64 {
	n := len(performanceScores)
	if len(difficultyLevels) < n {
		n = len(difficultyLevels)
	}
	if n < p.MinSamples {
		return p.BaseConfidence
	}

	sampleTerm := 0.05 * math.Min(float64(n), 8)
	consistency := 1 - math.Min(stddev(performanceScores)*2, 1)
	conf := 0.4 + sampleTerm + 0.2*consistency
	return math.Min(conf, p.MaxConfidence)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// Milestone kinds.
const (
	MilestoneLanguageAdvancement = "language_advancement"
	MilestoneTopicMastery        = "topic_mastery"
)

// Milestone is a threshold-triggered achievement derived from
// sustained data, never from a single sample.
type Milestone struct {
	Kind           string   `json:"kind"`
	Language       string   `json:"language,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

// SeriesStat summarizes one language's or topic's recent performance.
type SeriesStat struct {
	Scores []float64
}

func (s SeriesStat) Average() float64 { return mean(s.Scores) }

// IdentifyLearningMilestones scans per-language and per-topic stats for
// threshold crossings. A language advances when its recent average
// clears the mastery threshold over multiple samples. Topic mastery
// needs several distinct topics each sustained above the threshold;
// it then points the user at interdisciplinary content.
func IdentifyLearningMilestones(languageStats map[string]SeriesStat, topicStats map[string]SeriesStat, p policy.ProgressionPolicy) []Milestone {
	var out []Milestone

	for _, lang := range sortedKeys(languageStats) {
		stat := languageStats[lang]
		if len(stat.Scores) < p.MilestoneMinSample {
			continue
		}
		if stat.Average() >= p.MasteryThreshold {
			out = append(out, Milestone{
				Kind:           MilestoneLanguageAdvancement,
				Language:       lang,
				Description:    fmt.Sprintf("sustained strong performance reading %s", lang),
				Recommendation: "raise the default difficulty for this language",
			})
		}
	}

	var mastered []string
	for _, topic := range sortedKeys(topicStats) {
		stat := topicStats[topic]
		if len(stat.Scores) >= p.MilestoneMinSample && stat.Average() >= p.MasteryThreshold {
			mastered = append(mastered, topic)
		}
	}
	if len(mastered) >= p.MasteryMinTopics {
		out = append(out, Milestone{
			Kind:           MilestoneTopicMastery,
			Topics:         mastered,
			Description:    fmt.Sprintf("strong command across %d topics", len(mastered)),
			Recommendation: "explore interdisciplinary content connecting these topics",
		})
	}
	return out
}

func sortedKeys(m map[string]SeriesStat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Language learning recommendation bands. Mutually exclusive and
// exhaustive over the performance/difficulty space.
const (
	BandReadyForAdvanced     = "ready_for_advanced_content"
	BandContinueIntermediate = "continue_intermediate_level"
	BandFocusFundamentals    = "focus_on_fundamentals"
)

// LanguagePerformance carries a language's recent averages.
type LanguagePerformance struct {
	AveragePerformance float64
	AverageDifficulty  float64
	Samples            int
}

// GenerateLanguageLearningRecommendations bands each language by where
// its performance sits relative to the difficulty being read.
func GenerateLanguageLearningRecommendations(perf map[string]LanguagePerformance, p policy.ProgressionPolicy) map[string]string {
	out := make(map[string]string, len(perf))
	for lang, lp := range perf {
		switch {
		case lp.AveragePerformance >= p.AdvancedReadyPerformance && lp.AverageDifficulty >= p.AdvancedReadyDifficulty:
			out[lang] = BandReadyForAdvanced
		case lp.AveragePerformance < p.FundamentalsPerformance:
			out[lang] = BandFocusFundamentals
		default:
			out[lang] = BandContinueIntermediate
		}
	}
	return out
}

// Overall strategy labels.
const (
	StrategyAccelerated = "accelerated_learning"
	StrategySteady      = "steady_progression"
	StrategyFoundation  = "foundation_building"
)

// LearningStrategy aggregates across languages and topics.
type LearningStrategy struct {
	Strategy           string  `json:"strategy"`
	Focus              string  `json:"focus"`
	OverallPerformance float64 `json:"overall_performance"`
}

// DetermineOverallLearningStrategy averages every language and topic
// signal into one number and picks a strategy. Accelerated needs both
// a high average and at least two contributing signals; one strong
// series is not a pattern.
func DetermineOverallLearningStrategy(languageStats map[string]SeriesStat, topicStats map[string]SeriesStat, p policy.ProgressionPolicy) LearningStrategy {
	var signals []float64
	for _, stat := range languageStats {
		if len(stat.Scores) > 0 {
			signals = append(signals, stat.Average())
		}
	}
	for _, stat := range topicStats {
		if len(stat.Scores) > 0 {
			signals = append(signals, stat.Average())
		}
	}
	overall := mean(signals)

	switch {
	case overall >= p.HighPerformance && len(signals) >= 2:
		return LearningStrategy{
			Strategy:           StrategyAccelerated,
			Focus:              "introduce advanced content across current languages and topics",
			OverallPerformance: overall,
		}
	case overall < p.LowPerformance:
		return LearningStrategy{
			Strategy:           StrategyFoundation,
			Focus:              "reinforce fundamentals with accessible material before advancing",
			OverallPerformance: overall,
		}
	default:
		return LearningStrategy{
			Strategy:           StrategySteady,
			Focus:              "continue at the current difficulty with gradual increases",
			OverallPerformance: overall,
		}
	}
}

// Difficulty adjustment actions.
const (
	AdjustIncreaseModerate    = "increase_moderate"
	AdjustIncreaseSignificant = "increase_significant"
	AdjustDecreaseModerate    = "decrease_moderate"
	AdjustDecreaseSignificant = "decrease_significant"
	AdjustMaintain            = "maintain"
)

// SuggestDifficultyAdjustment picks an action from the latest score.
// The score decides the direction; the trend only sharpens the
// adjective when it agrees with the direction.
func SuggestDifficultyAdjustment(performanceScore float64, trend Trend, p policy.ProgressionPolicy) string {
	switch {
	case performanceScore > p.IncreaseThreshold:
		if trend.Direction == DirectionImproving {
			return AdjustIncreaseSignificant
		}
		return AdjustIncreaseModerate
	case performanceScore < p.DecreaseThreshold:
		if trend.Direction == DirectionDeclining {
			return AdjustDecreaseSignificant
		}
		return AdjustDecreaseModerate
	default:
		return AdjustMaintain
	}
}
