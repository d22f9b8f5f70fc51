package profile

import (
	"testing"
	"time"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

var testPolicy = policy.Default()

func highEngagementMetrics() BehaviorMetrics {
	return BehaviorMetrics{
		Language:          analysis.LanguageEnglish,
		CompletionRate:    0.95,
		ReadingSpeed:      250,
		PauseCount:        1,
		TotalPauseSeconds: 10,
		SessionSeconds:    600,
		InteractionCount:  4,
	}
}

func strugglingMetrics() BehaviorMetrics {
	return BehaviorMetrics{
		Language:          analysis.LanguageEnglish,
		CompletionRate:    0.30,
		ReadingSpeed:      80,
		PauseCount:        8,
		TotalPauseSeconds: 300,
		SessionSeconds:    600,
		InteractionCount:  0,
	}
}

func TestPerformanceScoreRanges(t *testing.T) {
	high := PerformanceScore(highEngagementMetrics(), testPolicy.Performance)
	if high < 0.7 || high > 1.0 {
		t.Fatalf("high engagement score = %.3f, want in [0.7, 1.0]", high)
	}
	low := PerformanceScore(strugglingMetrics(), testPolicy.Performance)
	if low < 0 || low > 0.5 {
		t.Fatalf("struggling score = %.3f, want in [0.0, 0.5]", low)
	}
	if low >= high {
		t.Fatalf("struggling score %.3f not below high engagement score %.3f", low, high)
	}
}

func TestPerformanceScoreMonotonicInCompletion(t *testing.T) {
	m := strugglingMetrics()
	prev := PerformanceScore(m, testPolicy.Performance)
	for _, c := range []float64{0.5, 0.7, 0.9, 1.0} {
		m.CompletionRate = c
		got := PerformanceScore(m, testPolicy.Performance)
		if got < prev {
			t.Fatalf("score decreased from %.3f to %.3f as completion rose to %.2f", prev, got, c)
		}
		prev = got
	}
}

func TestPerformanceScoreSpeedSaturates(t *testing.T) {
	m := highEngagementMetrics()
	m.ReadingSpeed = 345 // 1.5x baseline
	at := PerformanceScore(m, testPolicy.Performance)
	m.ReadingSpeed = 2000
	beyond := PerformanceScore(m, testPolicy.Performance)
	if beyond != at {
		t.Fatalf("score kept rising past speed cap: %.4f vs %.4f", beyond, at)
	}
}

func TestPerformanceScoreZeroSession(t *testing.T) {
	got := PerformanceScore(BehaviorMetrics{Language: analysis.LanguageEnglish}, testPolicy.Performance)
	if got < 0 || got > 1 {
		t.Fatalf("zero-signal score out of range: %.3f", got)
	}
}

func TestUpdateReadingLevelRisesOnStrongPerformance(t *testing.T) {
	e := LevelEstimate{Language: analysis.LanguageEnglish, Level: 0.45, Confidence: 0.5, AssessmentCount: 5}
	now := time.Now()
	got := UpdateReadingLevel(e, analysis.LevelAdvanced, 0.85, now, testPolicy.LevelUpdate)
	if got.Level <= e.Level {
		t.Fatalf("level did not rise: %.4f -> %.4f", e.Level, got.Level)
	}
	if got.AssessmentCount != 6 {
		t.Fatalf("assessment count = %d, want 6", got.AssessmentCount)
	}
	if got.Confidence <= e.Confidence {
		t.Fatalf("confidence did not rise: %.4f -> %.4f", e.Confidence, got.Confidence)
	}
	if !got.LastAssessment.Equal(now) {
		t.Fatalf("last assessment not recorded")
	}
}

func TestUpdateReadingLevelFallsOnWeakPerformance(t *testing.T) {
	e := LevelEstimate{Language: analysis.LanguageEnglish, Level: 0.45, Confidence: 0.5, AssessmentCount: 5}
	got := UpdateReadingLevel(e, analysis.LevelIntermediate, 0.30, time.Now(), testPolicy.LevelUpdate)
	if got.Level >= e.Level {
		t.Fatalf("level did not fall: %.4f -> %.4f", e.Level, got.Level)
	}
}

func TestUpdateReadingLevelMovesEvenAtMatchingDifficulty(t *testing.T) {
	// Content difficulty equal to the estimate still moves it via the
	// gap floor, so a run of failures cannot be ignored.
	e := LevelEstimate{Language: analysis.LanguageEnglish, Level: analysis.LevelIntermediate.Midpoint(), Confidence: 0.4, AssessmentCount: 3}
	got := UpdateReadingLevel(e, analysis.LevelIntermediate, 0.2, time.Now(), testPolicy.LevelUpdate)
	if got.Level >= e.Level {
		t.Fatalf("level unchanged despite clearly weak performance: %.4f", got.Level)
	}
}

func TestUpdateReadingLevelStepShrinksWithHistory(t *testing.T) {
	fresh := LevelEstimate{Language: analysis.LanguageEnglish, Level: 0.40, Confidence: 0.1, AssessmentCount: 0}
	veteran := LevelEstimate{Language: analysis.LanguageEnglish, Level: 0.40, Confidence: 0.9, AssessmentCount: 40}
	now := time.Now()
	freshStep := UpdateReadingLevel(fresh, analysis.LevelAdvanced, 0.9, now, testPolicy.LevelUpdate).Level - fresh.Level
	veteranStep := UpdateReadingLevel(veteran, analysis.LevelAdvanced, 0.9, now, testPolicy.LevelUpdate).Level - veteran.Level
	if veteranStep >= freshStep {
		t.Fatalf("veteran step %.4f not smaller than fresh step %.4f", veteranStep, freshStep)
	}
	if veteranStep <= 0 {
		t.Fatalf("veteran estimate froze entirely")
	}
}

func TestUpdateReadingLevelConfidenceCapped(t *testing.T) {
	e := NewLevelEstimate(analysis.LanguageJapanese)
	now := time.Now()
	for i := 0; i < 200; i++ {
		e = UpdateReadingLevel(e, analysis.LevelIntermediate, 0.7, now, testPolicy.LevelUpdate)
	}
	if e.Confidence > testPolicy.LevelUpdate.MaxConfidence {
		t.Fatalf("confidence %.4f exceeds cap %.2f", e.Confidence, testPolicy.LevelUpdate.MaxConfidence)
	}
	if e.Level < 0 || e.Level > 1 {
		t.Fatalf("level escaped [0,1]: %.4f", e.Level)
	}
}

func TestLevelEstimateTiers(t *testing.T) {
	cases := []struct {
		level float64
		want  analysis.Level
	}{
		{0.10, analysis.LevelBeginner},
		{0.40, analysis.LevelIntermediate},
		{0.60, analysis.LevelAdvanced},
		{0.90, analysis.LevelExpert},
	}
	for _, tc := range cases {
		got := LevelEstimate{Level: tc.level}.Tier()
		if got != tc.want {
			t.Fatalf("Tier(%.2f) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestUpdatePreferencesReinforcesAndDecays(t *testing.T) {
	now := time.Now()
	prefs := []TopicPreference{
		{Topic: "science", Weight: 0.50, EventCount: 4},
		{Topic: "history", Weight: 0.40, EventCount: 3},
	}
	prefs, _ = UpdatePreferences(prefs, []TopicSignal{
		{Topic: "science", Confidence: 0.9, Engagement: 0.8},
	}, now, testPolicy.Preferences)

	science := PreferenceWeight(prefs, "science")
	if science <= 0.50 {
		t.Fatalf("reinforced topic did not rise: %.4f", science)
	}
	history := PreferenceWeight(prefs, "history")
	if history >= 0.40 {
		t.Fatalf("untouched topic did not decay: %.4f", history)
	}
}

func TestUpdatePreferencesEmergedEvent(t *testing.T) {
	now := time.Now()
	prefs, events := UpdatePreferences(nil, []TopicSignal{
		{Topic: "astronomy", Confidence: 1.0, Engagement: 1.0},
	}, now, testPolicy.Preferences)
	if len(prefs) != 1 || prefs[0].Topic != "astronomy" {
		t.Fatalf("new topic not added: %+v", prefs)
	}
	if prefs[0].Trend != TrendRising {
		t.Fatalf("new topic trend = %q, want rising", prefs[0].Trend)
	}
	if len(events) != 1 || events[0].Kind != EvolutionEmerged {
		t.Fatalf("expected a single emerged event, got %+v", events)
	}
}

func TestUpdatePreferencesFadesBelowFloor(t *testing.T) {
	now := time.Now()
	prefs := []TopicPreference{
		{Topic: "stamps", Weight: testPolicy.Preferences.MinWeight * 1.001},
	}
	var events []EvolutionEvent
	for i := 0; i < 5; i++ {
		prefs, events = UpdatePreferences(prefs, nil, now, testPolicy.Preferences)
		if len(prefs) == 0 {
			break
		}
	}
	if len(prefs) != 0 {
		t.Fatalf("topic never fell below floor: %+v", prefs)
	}
	if len(events) != 1 || events[0].Kind != EvolutionFaded {
		t.Fatalf("expected faded event, got %+v", events)
	}
}

func TestUpdatePreferencesWeightsBounded(t *testing.T) {
	now := time.Now()
	var prefs []TopicPreference
	for i := 0; i < 100; i++ {
		prefs, _ = UpdatePreferences(prefs, []TopicSignal{
			{Topic: "science", Confidence: 1.0, Engagement: 1.0},
		}, now, testPolicy.Preferences)
	}
	w := PreferenceWeight(prefs, "science")
	if w <= 0 || w > 1 {
		t.Fatalf("weight escaped (0,1]: %.4f", w)
	}
}

func TestUpdatePreferencesZeroEngagementIgnored(t *testing.T) {
	prefs, events := UpdatePreferences(nil, []TopicSignal{
		{Topic: "science", Confidence: 0.9, Engagement: 0},
	}, time.Now(), testPolicy.Preferences)
	if len(prefs) != 0 || len(events) != 0 {
		t.Fatalf("zero-engagement signal created state: %+v %+v", prefs, events)
	}
}

func TestUpdatePreferencesSortedAndCapped(t *testing.T) {
	p := testPolicy.Preferences
	p.MaxTopics = 2
	now := time.Now()
	prefs := []TopicPreference{
		{Topic: "a", Weight: 0.30},
		{Topic: "b", Weight: 0.60},
		{Topic: "c", Weight: 0.45},
	}
	prefs, events := UpdatePreferences(prefs, []TopicSignal{
		{Topic: "b", Confidence: 0.5, Engagement: 0.5},
	}, now, p)
	if len(prefs) != 2 {
		t.Fatalf("cap not applied: %+v", prefs)
	}
	if prefs[0].Topic != "b" || prefs[1].Topic != "c" {
		t.Fatalf("strongest topics not retained in order: %+v", prefs)
	}
	foundFade := false
	for _, ev := range events {
		if ev.Kind == EvolutionFaded && ev.Topic == "a" {
			foundFade = true
		}
	}
	if !foundFade {
		t.Fatalf("capped-out topic produced no faded event: %+v", events)
	}
}

func TestStrongTopics(t *testing.T) {
	prefs := []TopicPreference{
		{Topic: "science", Weight: 0.75},
		{Topic: "history", Weight: 0.62},
		{Topic: "sports", Weight: 0.30},
	}
	got := StrongTopics(prefs, 0.60)
	if len(got) != 2 || got[0] != "science" || got[1] != "history" {
		t.Fatalf("StrongTopics = %v", got)
	}
}

func TestUpdateContextual(t *testing.T) {
	m := UpdateContextual(nil, "evening_mobile", 0.8, 12)
	m = UpdateContextual(m, "evening_mobile", 0.6, 8)
	cp := m["evening_mobile"]
	if cp.Sessions != 2 {
		t.Fatalf("sessions = %d, want 2", cp.Sessions)
	}
	if cp.MeanCompletion < 0.69 || cp.MeanCompletion > 0.71 {
		t.Fatalf("mean completion = %.3f, want 0.70", cp.MeanCompletion)
	}
	if cp.MeanLength < 9.9 || cp.MeanLength > 10.1 {
		t.Fatalf("mean length = %.3f, want 10", cp.MeanLength)
	}
	if got := UpdateContextual(m, "", 1, 1); len(got) != 1 {
		t.Fatalf("empty context key created an entry")
	}
}
