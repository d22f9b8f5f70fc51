package profile

import (
	"math"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// BehaviorMetrics are the signals from one reading session used to
// score performance.
type BehaviorMetrics struct {
	Language       analysis.Language
	CompletionRate float64
	// Words per minute.
	ReadingSpeed      float64
	PauseCount        int
	TotalPauseSeconds float64
	SessionSeconds    float64
	InteractionCount  int
}

// PerformanceScore folds a session into [0,1]. Completion and speed
// raise the score, unexplained pauses lower it, and interactions
// (highlights, notes, lookups) count as engagement. Monotonic in
// completion rate and reading speed.
func PerformanceScore(m BehaviorMetrics, p policy.PerformancePolicy) float64 {
	completion := clamp01(m.CompletionRate)

	baseline := p.EnglishBaselineWPM
	if m.Language == analysis.LanguageJapanese {
		baseline = p.JapaneseBaselineWPM
	}
	speed := 0.0
	if baseline > 0 && m.ReadingSpeed > 0 {
		// Above-baseline speed saturates at 1.5x so skimming cannot
		// dominate the score.
		speed = math.Min(m.ReadingSpeed/baseline, 1.5) / 1.5
	}

	pause := pauseScore(m)

	engagement := 0.0
	if p.FullEngagementInteractions > 0 {
		engagement = math.Min(float64(m.InteractionCount)/float64(p.FullEngagementInteractions), 1)
	}

	score := completion*p.CompletionWeight +
		speed*p.SpeedWeight +
		pause*p.PauseWeight +
		engagement*p.InteractionWeight
	return clamp01(score)
}

// pauseScore starts at 1 and decays with pause frequency and with the
// share of the session spent paused.
func pauseScore(m BehaviorMetrics) float64 {
	if m.PauseCount == 0 {
		return 1
	}
	frequencyPenalty := math.Min(float64(m.PauseCount)*0.1, 0.6)
	durationPenalty := 0.0
	if m.SessionSeconds > 0 {
		durationPenalty = math.Min(m.TotalPauseSeconds/m.SessionSeconds, 1) * 0.4
	}
	return clamp01(1 - frequencyPenalty - durationPenalty)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
