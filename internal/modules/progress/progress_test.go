package progress

import (
	"testing"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

var testPolicy = policy.Default()

func TestComputeTrendDirections(t *testing.T) {
	eps := testPolicy.Progression.SlopeEpsilon
	cases := []struct {
		name   string
		series []float64
		want   Direction
	}{
		{"rising", []float64{0.3, 0.4, 0.5, 0.6, 0.7}, DirectionImproving},
		{"falling", []float64{0.7, 0.6, 0.5, 0.4, 0.3}, DirectionDeclining},
		{"flat", []float64{0.5, 0.5, 0.5, 0.5}, DirectionStable},
		{"noisy flat", []float64{0.50, 0.51, 0.49, 0.50}, DirectionStable},
		{"single point", []float64{0.9}, DirectionStable},
		{"empty", nil, DirectionStable},
	}
	for _, tc := range cases {
		got := ComputeTrend(tc.series, eps)
		if got.Direction != tc.want {
			t.Fatalf("%s: direction = %v (slope %.4f), want %v", tc.name, got.Direction, got.Slope, tc.want)
		}
	}
}

func TestComputeTrendSlopeSign(t *testing.T) {
	up := ComputeTrend([]float64{0.2, 0.5, 0.8}, 0.01)
	if up.Slope <= 0 {
		t.Fatalf("rising series has slope %.4f", up.Slope)
	}
	down := ComputeTrend([]float64{0.8, 0.5, 0.2}, 0.01)
	if down.Slope >= 0 {
		t.Fatalf("falling series has slope %.4f", down.Slope)
	}
}

func TestAssessProgressionStatusTotal(t *testing.T) {
	dirs := []Direction{DirectionImproving, DirectionStable, DirectionDeclining}
	want := map[[2]Direction]string{
		{DirectionImproving, DirectionImproving}: StatusExcellentProgression,
		{DirectionImproving, DirectionStable}:    StatusPerformanceImproving,
		{DirectionImproving, DirectionDeclining}: StatusPerformanceImproving,
		{DirectionStable, DirectionImproving}:    StatusDifficultyAdvancing,
		{DirectionStable, DirectionStable}:       StatusSteadyState,
		{DirectionStable, DirectionDeclining}:    StatusEasingBack,
		{DirectionDeclining, DirectionImproving}: StatusStruggling,
		{DirectionDeclining, DirectionStable}:    StatusStruggling,
		{DirectionDeclining, DirectionDeclining}: StatusNeedsSupport,
	}
	for _, p := range dirs {
		for _, d := range dirs {
			got := AssessProgressionStatus(Trend{Direction: p}, Trend{Direction: d})
			if got == "" {
				t.Fatalf("no status for (%v, %v)", p, d)
			}
			if got != want[[2]Direction{p, d}] {
				t.Fatalf("status(%v, %v) = %q, want %q", p, d, got, want[[2]Direction{p, d}])
			}
		}
	}
}

func TestGenerateProgressionRecommendation(t *testing.T) {
	p := testPolicy.Progression
	stable := Trend{Direction: DirectionStable}
	declining := Trend{Direction: DirectionDeclining}

	rec := GenerateProgressionRecommendation(stable, stable, 0.85, p)
	if rec.Action != ActionIncreaseDifficulty || rec.Magnitude != MagnitudeModerate {
		t.Fatalf("high performer: %+v", rec)
	}
	if rec.Reason == "" {
		t.Fatalf("recommendation missing reason")
	}

	rec = GenerateProgressionRecommendation(stable, declining, 0.85, p)
	if rec.Action != ActionMaintain {
		t.Fatalf("high performance with declining difficulty should maintain, got %+v", rec)
	}

	rec = GenerateProgressionRecommendation(declining, stable, 0.25, p)
	if rec.Action != ActionDecreaseDifficulty || rec.Magnitude != MagnitudeSignificant {
		t.Fatalf("struggling reader: %+v", rec)
	}

	rec = GenerateProgressionRecommendation(stable, stable, 0.60, p)
	if rec.Action != ActionMaintain {
		t.Fatalf("mid-range performance should maintain, got %+v", rec)
	}
}

func TestProgressionConfidenceSmallSample(t *testing.T) {
	p := testPolicy.Progression
	for _, scores := range [][]float64{nil, {0.8}, {0.8, 0.9}} {
		got := ProgressionConfidence(scores, scores, p)
		if got != p.BaseConfidence {
			t.Fatalf("%d samples: confidence = %.3f, want exactly %.2f", len(scores), got, p.BaseConfidence)
		}
	}
}

func TestProgressionConfidenceConsistentHighSample(t *testing.T) {
	p := testPolicy.Progression
	scores := []float64{0.85, 0.86, 0.84, 0.85, 0.87, 0.85}
	diffs := []float64{0.5, 0.5, 0.6, 0.6, 0.6, 0.7}
	got := ProgressionConfidence(scores, diffs, p)
	if got <= 0.7 || got > 0.9 {
		t.Fatalf("confidence = %.3f, want in (0.7, 0.9]", got)
	}
}

func TestProgressionConfidenceNeverReachesOne(t *testing.T) {
	p := testPolicy.Progression
	scores := make([]float64, 50)
	for i := range scores {
		scores[i] = 0.9
	}
	got := ProgressionConfidence(scores, scores, p)
	if got > p.MaxConfidence {
		t.Fatalf("confidence %.3f exceeds cap %.2f", got, p.MaxConfidence)
	}
}

func TestProgressionConfidencePenalizesVariance(t *testing.T) {
	p := testPolicy.Progression
	steady := []float64{0.7, 0.7, 0.7, 0.7, 0.7, 0.7}
	erratic := []float64{0.2, 0.9, 0.1, 0.95, 0.3, 0.85}
	if ProgressionConfidence(erratic, erratic, p) >= ProgressionConfidence(steady, steady, p) {
		t.Fatalf("erratic series not penalized")
	}
}

func TestIdentifyLearningMilestonesTopicMastery(t *testing.T) {
	p := testPolicy.Progression
	mastered := SeriesStat{Scores: []float64{0.85, 0.9, 0.88}}

	got := IdentifyLearningMilestones(nil, map[string]SeriesStat{
		"science": mastered, "history": mastered, "art": mastered,
	}, p)
	if !hasMilestone(got, MilestoneTopicMastery) {
		t.Fatalf("three mastered topics did not trigger topic_mastery: %+v", got)
	}
	for _, m := range got {
		if m.Kind == MilestoneTopicMastery && len(m.Topics) != 3 {
			t.Fatalf("mastery milestone topics = %v", m.Topics)
		}
	}

	got = IdentifyLearningMilestones(nil, map[string]SeriesStat{
		"science": mastered, "history": mastered,
	}, p)
	if hasMilestone(got, MilestoneTopicMastery) {
		t.Fatalf("two mastered topics should not trigger topic_mastery")
	}
}

func TestIdentifyLearningMilestonesSingleSampleIgnored(t *testing.T) {
	p := testPolicy.Progression
	oneGreatRead := SeriesStat{Scores: []float64{0.95}}
	got := IdentifyLearningMilestones(
		map[string]SeriesStat{"english": oneGreatRead},
		map[string]SeriesStat{"science": oneGreatRead, "history": oneGreatRead, "art": oneGreatRead},
		p,
	)
	if len(got) != 0 {
		t.Fatalf("single samples fabricated milestones: %+v", got)
	}
}

func TestIdentifyLearningMilestonesLanguageAdvancement(t *testing.T) {
	p := testPolicy.Progression
	got := IdentifyLearningMilestones(map[string]SeriesStat{
		"japanese": {Scores: []float64{0.82, 0.86, 0.9}},
		"english":  {Scores: []float64{0.5, 0.55, 0.6}},
	}, nil, p)
	if len(got) != 1 || got[0].Kind != MilestoneLanguageAdvancement || got[0].Language != "japanese" {
		t.Fatalf("milestones = %+v", got)
	}
}

func TestGenerateLanguageLearningRecommendations(t *testing.T) {
	p := testPolicy.Progression
	got := GenerateLanguageLearningRecommendations(map[string]LanguagePerformance{
		"english":  {AveragePerformance: 0.85, AverageDifficulty: 0.65, Samples: 6},
		"japanese": {AveragePerformance: 0.30, AverageDifficulty: 0.20, Samples: 4},
		"mixed":    {AveragePerformance: 0.60, AverageDifficulty: 0.40, Samples: 5},
	}, p)
	if got["english"] != BandReadyForAdvanced {
		t.Fatalf("english band = %q", got["english"])
	}
	if got["japanese"] != BandFocusFundamentals {
		t.Fatalf("japanese band = %q", got["japanese"])
	}
	if got["mixed"] != BandContinueIntermediate {
		t.Fatalf("mixed band = %q", got["mixed"])
	}
}

func TestGenerateLanguageLearningRecommendationsHighPerformanceEasyMaterial(t *testing.T) {
	// Strong scores on easy material is not advanced-readiness.
	p := testPolicy.Progression
	got := GenerateLanguageLearningRecommendations(map[string]LanguagePerformance{
		"english": {AveragePerformance: 0.90, AverageDifficulty: 0.20, Samples: 6},
	}, p)
	if got["english"] != BandContinueIntermediate {
		t.Fatalf("band = %q, want continue_intermediate_level", got["english"])
	}
}

func TestDetermineOverallLearningStrategy(t *testing.T) {
	p := testPolicy.Progression
	high := SeriesStat{Scores: []float64{0.85, 0.9}}
	low := SeriesStat{Scores: []float64{0.2, 0.3}}

	s := DetermineOverallLearningStrategy(
		map[string]SeriesStat{"english": high},
		map[string]SeriesStat{"science": high},
		p,
	)
	if s.Strategy != StrategyAccelerated {
		t.Fatalf("strategy = %+v", s)
	}
	if s.OverallPerformance < 0.8 {
		t.Fatalf("overall performance = %.3f", s.OverallPerformance)
	}

	// One strong signal alone is not a pattern.
	s = DetermineOverallLearningStrategy(map[string]SeriesStat{"english": high}, nil, p)
	if s.Strategy == StrategyAccelerated {
		t.Fatalf("single signal yielded accelerated strategy")
	}

	s = DetermineOverallLearningStrategy(map[string]SeriesStat{"english": low}, map[string]SeriesStat{"science": low}, p)
	if s.Strategy != StrategyFoundation {
		t.Fatalf("strategy = %+v", s)
	}
}

func TestSuggestDifficultyAdjustment(t *testing.T) {
	p := testPolicy.Progression
	improving := Trend{Direction: DirectionImproving}
	declining := Trend{Direction: DirectionDeclining}
	stable := Trend{Direction: DirectionStable}

	cases := []struct {
		score float64
		trend Trend
		want  string
	}{
		{0.90, stable, AdjustIncreaseModerate},
		{0.90, improving, AdjustIncreaseSignificant},
		{0.90, declining, AdjustIncreaseModerate},
		{0.30, stable, AdjustDecreaseModerate},
		{0.30, declining, AdjustDecreaseSignificant},
		{0.30, improving, AdjustDecreaseModerate},
		{0.60, improving, AdjustMaintain},
		{0.60, declining, AdjustMaintain},
	}
	for _, tc := range cases {
		got := SuggestDifficultyAdjustment(tc.score, tc.trend, p)
		if got != tc.want {
			t.Fatalf("adjust(%.2f, %v) = %q, want %q", tc.score, tc.trend.Direction, got, tc.want)
		}
	}
}

func hasMilestone(ms []Milestone, kind string) bool {
	for _, m := range ms {
		if m.Kind == kind {
			return true
		}
	}
	return false
}
