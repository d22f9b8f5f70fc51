package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy collects every tunable constant used by the scoring and
// progression math. Defaults are documented here; deployments may
// override them from a YAML file. Each cut-point set must stay
// monotonic, which Validate enforces after loading.
type Policy struct {
	Readability    ReadabilityPolicy    `yaml:"readability"`
	Performance    PerformancePolicy    `yaml:"performance"`
	LevelUpdate    LevelUpdatePolicy    `yaml:"level_update"`
	Preferences    PreferencePolicy     `yaml:"preferences"`
	Progression    ProgressionPolicy    `yaml:"progression"`
	Recommendation RecommendationPolicy `yaml:"recommendation"`
	Discovery      DiscoveryPolicy      `yaml:"discovery"`
}

// ReadabilityPolicy maps primary numeric scores to the four-bucket
// classification. English cuts are Flesch-Kincaid grades, Japanese cuts
// are kanji density in [0,1].
type ReadabilityPolicy struct {
	EnglishBeginnerMax      float64 `yaml:"english_beginner_max"`
	EnglishIntermediateMax  float64 `yaml:"english_intermediate_max"`
	EnglishAdvancedMax      float64 `yaml:"english_advanced_max"`
	JapaneseBeginnerMax     float64 `yaml:"japanese_beginner_max"`
	JapaneseIntermediateMax float64 `yaml:"japanese_intermediate_max"`
	JapaneseAdvancedMax     float64 `yaml:"japanese_advanced_max"`
}

// PerformancePolicy weighs the behavior signals into one score in [0,1].
// Weights sum to 1.
type PerformancePolicy struct {
	CompletionWeight  float64 `yaml:"completion_weight"`
	SpeedWeight       float64 `yaml:"speed_weight"`
	PauseWeight       float64 `yaml:"pause_weight"`
	InteractionWeight float64 `yaml:"interaction_weight"`

	// Words-per-minute baselines per language.
	EnglishBaselineWPM  float64 `yaml:"english_baseline_wpm"`
	JapaneseBaselineWPM float64 `yaml:"japanese_baseline_wpm"`

	// Interactions at or above this count earn the full engagement score.
	FullEngagementInteractions int `yaml:"full_engagement_interactions"`
}

// LevelUpdatePolicy controls how a reading-level estimate moves after a
// behavior event. The effective step shrinks with assessment count and
// with existing confidence.
type LevelUpdatePolicy struct {
	BaseRate          float64 `yaml:"base_rate"`
	CountDecay        float64 `yaml:"count_decay"`
	ConfidenceDamping float64 `yaml:"confidence_damping"`
	// Smallest gap used for the step so a clearly low performance still
	// moves the estimate even when content difficulty equals it.
	MinGap         float64 `yaml:"min_gap"`
	ConfidenceGain float64 `yaml:"confidence_gain"`
	MaxConfidence  float64 `yaml:"max_confidence"`
}

type PreferencePolicy struct {
	// Per-event reinforcement toward 1.0 for topics just read.
	ReinforcementRate float64 `yaml:"reinforcement_rate"`
	// Multiplicative decay applied to untouched topics per update.
	DecayFactor float64 `yaml:"decay_factor"`
	// Topics whose weight falls below this are dropped.
	MinWeight float64 `yaml:"min_weight"`
	MaxTopics int     `yaml:"max_topics"`
	// Relative change beyond which a trend flips to rising/declining.
	TrendEpsilon float64 `yaml:"trend_epsilon"`
}

type ProgressionPolicy struct {
	// Slopes within +/- epsilon classify as stable.
	SlopeEpsilon float64 `yaml:"slope_epsilon"`

	HighPerformance float64 `yaml:"high_performance"`
	LowPerformance  float64 `yaml:"low_performance"`

	MinSamples     int     `yaml:"min_samples"`
	BaseConfidence float64 `yaml:"base_confidence"`
	MaxConfidence  float64 `yaml:"max_confidence"`

	MasteryThreshold   float64 `yaml:"mastery_threshold"`
	MasteryMinTopics   int     `yaml:"mastery_min_topics"`
	MilestoneMinSample int     `yaml:"milestone_min_sample"`

	AdvancedReadyPerformance float64 `yaml:"advanced_ready_performance"`
	AdvancedReadyDifficulty  float64 `yaml:"advanced_ready_difficulty"`
	FundamentalsPerformance  float64 `yaml:"fundamentals_performance"`

	IncreaseThreshold float64 `yaml:"increase_threshold"`
	DecreaseThreshold float64 `yaml:"decrease_threshold"`
}

type RecommendationPolicy struct {
	TopicWeight   float64 `yaml:"topic_weight"`
	LevelWeight   float64 `yaml:"level_weight"`
	ContextWeight float64 `yaml:"context_weight"`

	// Level-fit penalty slopes; too-hard is punished harder than
	// slightly-too-easy.
	HardPenaltySlope float64 `yaml:"hard_penalty_slope"`
	EasyPenaltySlope float64 `yaml:"easy_penalty_slope"`

	// Reading-time estimate divisor (words per minute).
	ReadingTimeWPM float64 `yaml:"reading_time_wpm"`
}

type DiscoveryPolicy struct {
	// Weight at or above which a topic preference counts as strong.
	StrongPreference float64 `yaml:"strong_preference"`
	// Cap on reported bridging topics.
	BridgeCap int `yaml:"bridge_cap"`
	// Candidates below this divergence are too close to the profile to
	// count as discovery.
	MinDivergence float64 `yaml:"min_divergence"`
}

func Default() Policy {
	return Policy{
		Readability: ReadabilityPolicy{
			EnglishBeginnerMax:      6.0,
			EnglishIntermediateMax:  9.0,
			EnglishAdvancedMax:      13.0,
			JapaneseBeginnerMax:     0.15,
			JapaneseIntermediateMax: 0.30,
			JapaneseAdvancedMax:     0.45,
		},
		Performance: PerformancePolicy{
			CompletionWeight:           0.40,
			SpeedWeight:                0.25,
			PauseWeight:                0.20,
			InteractionWeight:          0.15,
			EnglishBaselineWPM:         230,
			JapaneseBaselineWPM:        400,
			FullEngagementInteractions: 3,
		},
		LevelUpdate: LevelUpdatePolicy{
			BaseRate:          0.5,
			CountDecay:        0.2,
			ConfidenceDamping: 0.5,
			MinGap:            0.05,
			ConfidenceGain:    0.08,
			MaxConfidence:     0.95,
		},
		Preferences: PreferencePolicy{
			ReinforcementRate: 0.25,
			DecayFactor:       0.995,
			MinWeight:         0.05,
			MaxTopics:         100,
			TrendEpsilon:      0.02,
		},
		Progression: ProgressionPolicy{
			SlopeEpsilon:             0.01,
			HighPerformance:          0.80,
			LowPerformance:           0.35,
			MinSamples:               3,
			BaseConfidence:           0.30,
			MaxConfidence:            0.90,
			MasteryThreshold:         0.80,
			MasteryMinTopics:         3,
			MilestoneMinSample:       2,
			AdvancedReadyPerformance: 0.75,
			AdvancedReadyDifficulty:  0.55,
			FundamentalsPerformance:  0.45,
			IncreaseThreshold:        0.80,
			DecreaseThreshold:        0.45,
		},
		Recommendation: RecommendationPolicy{
			TopicWeight:      0.45,
			LevelWeight:      0.35,
			ContextWeight:    0.20,
			HardPenaltySlope: 2.5,
			EasyPenaltySlope: 1.5,
			ReadingTimeWPM:   230,
		},
		Discovery: DiscoveryPolicy{
			StrongPreference: 0.60,
			BridgeCap:        3,
			MinDivergence:    0.20,
		},
	}
}

// Load returns the defaults overridden by the YAML file at path. An
// empty path returns the defaults unchanged.
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read scoring policy: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse scoring policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	r := p.Readability
	if !(r.EnglishBeginnerMax < r.EnglishIntermediateMax && r.EnglishIntermediateMax < r.EnglishAdvancedMax) {
		return fmt.Errorf("scoring policy: english readability cut points must be strictly increasing")
	}
	if !(r.JapaneseBeginnerMax < r.JapaneseIntermediateMax && r.JapaneseIntermediateMax < r.JapaneseAdvancedMax) {
		return fmt.Errorf("scoring policy: japanese readability cut points must be strictly increasing")
	}
	if p.Progression.DecreaseThreshold >= p.Progression.IncreaseThreshold {
		return fmt.Errorf("scoring policy: decrease threshold must be below increase threshold")
	}
	return nil
}
