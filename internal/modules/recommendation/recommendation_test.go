package recommendation

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"

	"github.com/google/uuid"
)

var testPolicy = policy.Default()

func candidate(title string, level analysis.Level, publishedAt time.Time, topics ...analysis.Topic) Candidate {
	return Candidate{
		ContentID:   uuid.New(),
		Title:       title,
		Language:    analysis.LanguageEnglish,
		Level:       level,
		Topics:      topics,
		WordCount:   800,
		PublishedAt: publishedAt,
	}
}

func scienceUser() UserModel {
	return UserModel{
		Level: analysis.LevelIntermediate.Midpoint(),
		Preferences: []profile.TopicPreference{
			{Topic: "science", Weight: 0.85},
			{Topic: "technology", Weight: 0.70},
			{Topic: "sports", Weight: 0.15},
		},
	}
}

func TestRankPrefersMatchingTopicsAtMatchingLevel(t *testing.T) {
	now := time.Now()
	match := candidate("science feature", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "science", Confidence: 0.9})
	offTopic := candidate("gardening column", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "gardening", Confidence: 0.9})
	tooHard := candidate("expert science paper", analysis.LevelExpert, now,
		analysis.Topic{Topic: "science", Confidence: 0.9})

	got := Rank([]Candidate{offTopic, tooHard, match}, scienceUser(), Context{}, 3, testPolicy.Recommendation)
	if len(got) != 3 {
		t.Fatalf("got %d results", len(got))
	}
	if got[0].Title != "science feature" {
		t.Fatalf("top result = %q", got[0].Title)
	}
	if got[0].Reason == "" {
		t.Fatalf("missing recommendation reason")
	}
}

func TestRankLimitLargerThanPool(t *testing.T) {
	now := time.Now()
	pool := []Candidate{
		candidate("a", analysis.LevelIntermediate, now, analysis.Topic{Topic: "science", Confidence: 0.5}),
		candidate("b", analysis.LevelIntermediate, now, analysis.Topic{Topic: "science", Confidence: 0.5}),
		candidate("c", analysis.LevelIntermediate, now, analysis.Topic{Topic: "science", Confidence: 0.5}),
	}
	got := Rank(pool, scienceUser(), Context{}, 5, testPolicy.Recommendation)
	if len(got) != 3 {
		t.Fatalf("limit=5 over pool of 3 returned %d results", len(got))
	}
}

func TestRankTiesBreakNewerFirst(t *testing.T) {
	old := candidate("older", analysis.LevelIntermediate, time.Now().Add(-48*time.Hour),
		analysis.Topic{Topic: "science", Confidence: 0.8})
	newer := candidate("newer", analysis.LevelIntermediate, time.Now(),
		analysis.Topic{Topic: "science", Confidence: 0.8})
	newer.WordCount = old.WordCount

	got := Rank([]Candidate{old, newer}, scienceUser(), Context{}, 2, testPolicy.Recommendation)
	if got[0].Title != "newer" {
		t.Fatalf("tie not broken toward newer content: %q first", got[0].Title)
	}
}

func TestRankTooHardPenalizedMoreThanTooEasy(t *testing.T) {
	user := scienceUser() // intermediate midpoint
	sci := analysis.Topic{Topic: "science", Confidence: 0.9}
	now := time.Now()
	easier := candidate("beginner piece", analysis.LevelBeginner, now, sci)
	harder := candidate("expert piece", analysis.LevelExpert, now, sci)

	got := Rank([]Candidate{harder, easier}, user, Context{}, 2, testPolicy.Recommendation)
	if got[0].Title != "beginner piece" {
		t.Fatalf("slightly-easy should outrank far-too-hard, got %q first", got[0].Title)
	}
}

func TestRankTimePressureFavorsShortContent(t *testing.T) {
	user := scienceUser()
	sci := analysis.Topic{Topic: "science", Confidence: 0.9}
	now := time.Now()
	short := candidate("short read", analysis.LevelIntermediate, now, sci)
	short.WordCount = 600
	long := candidate("long read", analysis.LevelIntermediate, now, sci)
	long.WordCount = 8000

	got := Rank([]Candidate{long, short}, user, Context{AvailableMinutes: 5}, 2, testPolicy.Recommendation)
	if got[0].Title != "short read" {
		t.Fatalf("time-constrained ranking put %q first", got[0].Title)
	}
	if got[0].EstimatedMinutes <= 0 {
		t.Fatalf("missing reading time estimate")
	}
}

func TestRankEmptyInputs(t *testing.T) {
	if got := Rank(nil, scienceUser(), Context{}, 5, testPolicy.Recommendation); got != nil {
		t.Fatalf("nil pool returned %v", got)
	}
	pool := []Candidate{candidate("a", analysis.LevelBeginner, time.Now())}
	if got := Rank(pool, scienceUser(), Context{}, 0, testPolicy.Recommendation); got != nil {
		t.Fatalf("limit=0 returned %v", got)
	}
}

func TestDiscoverRequiresBridge(t *testing.T) {
	now := time.Now()
	bridged := candidate("physics of music", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "science", Confidence: 0.6},
		analysis.Topic{Topic: "music", Confidence: 0.8})
	unbridged := candidate("medieval poetry", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "poetry", Confidence: 0.9},
		analysis.Topic{Topic: "history", Confidence: 0.5})

	got := Discover([]Candidate{unbridged, bridged}, scienceUser().Preferences, 5, testPolicy.Discovery)
	if len(got) != 1 {
		t.Fatalf("got %d results, want only the bridged candidate", len(got))
	}
	if got[0].Title != "physics of music" {
		t.Fatalf("result = %q", got[0].Title)
	}
	if len(got[0].BridgingTopics) == 0 {
		t.Fatalf("result has no bridging topics")
	}
	if !strings.Contains(got[0].Reason, "science") {
		t.Fatalf("discovery reason does not reference the bridge: %q", got[0].Reason)
	}
}

func TestDiscoverEveryResultHasBridges(t *testing.T) {
	now := time.Now()
	var pool []Candidate
	topics := []string{"music", "cooking", "architecture", "poetry", "economics"}
	for _, top := range topics {
		pool = append(pool, candidate(top+" piece", analysis.LevelIntermediate, now,
			analysis.Topic{Topic: "science", Confidence: 0.4},
			analysis.Topic{Topic: top, Confidence: 0.9}))
	}
	pool = append(pool, candidate("isolated piece", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "knitting", Confidence: 0.9}))

	got := Discover(pool, scienceUser().Preferences, 10, testPolicy.Discovery)
	for _, rec := range got {
		if len(rec.BridgingTopics) == 0 {
			t.Fatalf("%q returned with no bridging topics", rec.Title)
		}
		if rec.Title == "isolated piece" {
			t.Fatalf("candidate with no overlap with strong preferences was returned")
		}
	}
}

func TestDiscoverExcludesFamiliarContent(t *testing.T) {
	// Everything the user already reads heavily: bridges exist but
	// divergence is below the floor.
	now := time.Now()
	familiar := candidate("another science piece", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "science", Confidence: 0.9},
		analysis.Topic{Topic: "technology", Confidence: 0.3})

	got := Discover([]Candidate{familiar}, scienceUser().Preferences, 5, testPolicy.Discovery)
	if len(got) != 0 {
		t.Fatalf("familiar content surfaced as discovery: %+v", got)
	}
}

func TestDiscoverBridgeCap(t *testing.T) {
	prefs := []profile.TopicPreference{
		{Topic: "a", Weight: 0.9}, {Topic: "b", Weight: 0.9},
		{Topic: "c", Weight: 0.9}, {Topic: "d", Weight: 0.9},
	}
	c := candidate("heavily bridged", analysis.LevelIntermediate, time.Now(),
		analysis.Topic{Topic: "a", Confidence: 0.3},
		analysis.Topic{Topic: "b", Confidence: 0.3},
		analysis.Topic{Topic: "c", Confidence: 0.3},
		analysis.Topic{Topic: "d", Confidence: 0.3},
		analysis.Topic{Topic: "novel", Confidence: 0.9})

	got := Discover([]Candidate{c}, prefs, 5, testPolicy.Discovery)
	if len(got) != 1 {
		t.Fatalf("got %d results", len(got))
	}
	if len(got[0].BridgingTopics) > testPolicy.Discovery.BridgeCap {
		t.Fatalf("bridging topics exceed cap: %v", got[0].BridgingTopics)
	}
}

func TestDiscoverOrdersByDivergence(t *testing.T) {
	now := time.Now()
	mild := candidate("mildly new", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "science", Confidence: 0.8},
		analysis.Topic{Topic: "music", Confidence: 0.4})
	bold := candidate("very new", analysis.LevelIntermediate, now,
		analysis.Topic{Topic: "science", Confidence: 0.2},
		analysis.Topic{Topic: "philosophy", Confidence: 0.9})

	got := Discover([]Candidate{mild, bold}, scienceUser().Preferences, 2, testPolicy.Discovery)
	if len(got) != 2 {
		t.Fatalf("got %d results", len(got))
	}
	if got[0].Title != "very new" {
		t.Fatalf("divergence ordering wrong: %q first", got[0].Title)
	}
	if got[0].DivergenceScore <= got[1].DivergenceScore {
		t.Fatalf("scores not descending: %.3f then %.3f", got[0].DivergenceScore, got[1].DivergenceScore)
	}
}
