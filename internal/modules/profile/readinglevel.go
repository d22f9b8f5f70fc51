package profile

import (
	"math"
	"time"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// LevelEstimate is the per-language reading ability estimate carried
// on the user's profile. Level lives on a continuous [0,1] scale so
// small sessions can nudge it; the discrete tier is derived on read.
type LevelEstimate struct {
	Language        analysis.Language
	Level           float64
	Confidence      float64
	AssessmentCount int
	LastAssessment  time.Time
}

// Tier maps the continuous estimate onto the four difficulty tiers.
func (e LevelEstimate) Tier() analysis.Level {
	switch {
	case e.Level < 0.30:
		return analysis.LevelBeginner
	case e.Level < 0.55:
		return analysis.LevelIntermediate
	case e.Level < 0.80:
		return analysis.LevelAdvanced
	default:
		return analysis.LevelExpert
	}
}

// NewLevelEstimate seeds an estimate for a language the user has not
// read in before. Starts mid-beginner with low confidence.
func NewLevelEstimate(language analysis.Language) LevelEstimate {
	return LevelEstimate{
		Language:   language,
		Level:      0.20,
		Confidence: 0.10,
	}
}

// UpdateReadingLevel folds one scored session into the estimate.
//
// The movement direction comes from performance relative to the 0.5
// neutral point, scaled by the gap between the content's difficulty
// and the current estimate. Strong performance on harder-than-level
// content raises the estimate; weak performance lowers it. The
// adaptation rate shrinks as assessments accumulate and as confidence
// grows, so an established estimate moves slowly.
func UpdateReadingLevel(e LevelEstimate, contentLevel analysis.Level, performance float64, at time.Time, p policy.LevelUpdatePolicy) LevelEstimate {
	performance = clamp01(performance)
	signal := (performance - 0.5) * 2

	gap := contentLevel.Midpoint() - e.Level
	magnitude := math.Max(math.Abs(gap), p.MinGap)

	rate := p.BaseRate / (1 + float64(e.AssessmentCount)*p.CountDecay)
	rate *= 1 - e.Confidence*p.ConfidenceDamping

	e.Level = clamp01(e.Level + signal*magnitude*rate)
	e.AssessmentCount++
	e.Confidence = math.Min(e.Confidence+p.ConfidenceGain*(1-e.Confidence), p.MaxConfidence)
	e.LastAssessment = at
	return e
}
