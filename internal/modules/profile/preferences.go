package profile

import (
	"math"
	"sort"
	"time"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// TopicPreference is one weighted interest on the user's profile.
type TopicPreference struct {
	Topic       string    `json:"topic"`
	Weight      float64   `json:"weight"`
	Trend       string    `json:"trend"`
	EventCount  int       `json:"event_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// Trend values.
const (
	TrendRising    = "rising"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// EvolutionEvent records a notable preference shift so the profile can
// explain how interests changed over time.
type EvolutionEvent struct {
	Topic      string    `json:"topic"`
	Kind       string    `json:"kind"`
	Weight     float64   `json:"weight"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Evolution event kinds.
const (
	EvolutionEmerged  = "emerged"
	EvolutionFaded    = "faded"
	EvolutionRising   = "rising"
	EvolutionDeclined = "declined"
)

// TopicSignal is one topic observed in a session, with the analyzer's
// confidence and the session's engagement acting as reinforcement
// strength.
type TopicSignal struct {
	Topic      string
	Confidence float64
	Engagement float64
}

// UpdatePreferences folds a session's topic signals into the profile.
//
// Topics seen this session move toward 1.0 proportionally to signal
// strength; every other topic decays multiplicatively, so interests the
// user stops reading about fade out instead of pinning forever. Weights
// that fall below the policy floor are dropped and reported as faded.
func UpdatePreferences(prefs []TopicPreference, signals []TopicSignal, at time.Time, p policy.PreferencePolicy) ([]TopicPreference, []EvolutionEvent) {
	byTopic := make(map[string]int, len(prefs))
	for i, pref := range prefs {
		byTopic[pref.Topic] = i
	}
	touched := make(map[string]bool, len(signals))

	var events []EvolutionEvent

	for _, sig := range signals {
		if sig.Topic == "" {
			continue
		}
		strength := clamp01(sig.Confidence) * clamp01(sig.Engagement)
		if strength == 0 {
			continue
		}
		touched[sig.Topic] = true

		idx, ok := byTopic[sig.Topic]
		if !ok {
			weight := p.ReinforcementRate * strength
			prefs = append(prefs, TopicPreference{
				Topic:       sig.Topic,
				Weight:      weight,
				Trend:       TrendRising,
				EventCount:  1,
				LastUpdated: at,
			})
			byTopic[sig.Topic] = len(prefs) - 1
			events = append(events, EvolutionEvent{Topic: sig.Topic, Kind: EvolutionEmerged, Weight: weight, OccurredAt: at})
			continue
		}

		pref := prefs[idx]
		before := pref.Weight
		pref.Weight = before + p.ReinforcementRate*strength*(1-before)
		pref.EventCount++
		pref.LastUpdated = at
		pref.Trend = trendOf(before, pref.Weight, p.TrendEpsilon)
		// Crossing the halfway mark upward is worth recording.
		if before < 0.5 && pref.Weight >= 0.5 {
			events = append(events, EvolutionEvent{Topic: pref.Topic, Kind: EvolutionRising, Weight: pref.Weight, OccurredAt: at})
		}
		prefs[idx] = pref
	}

	// Decay everything the session did not touch.
	kept := prefs[:0]
	for _, pref := range prefs {
		if !touched[pref.Topic] {
			before := pref.Weight
			pref.Weight *= p.DecayFactor
			pref.Trend = trendOf(before, pref.Weight, p.TrendEpsilon)
			if pref.Weight < p.MinWeight {
				events = append(events, EvolutionEvent{Topic: pref.Topic, Kind: EvolutionFaded, Weight: pref.Weight, OccurredAt: at})
				continue
			}
		}
		kept = append(kept, pref)
	}
	prefs = kept

	sort.SliceStable(prefs, func(i, j int) bool {
		if prefs[i].Weight != prefs[j].Weight {
			return prefs[i].Weight > prefs[j].Weight
		}
		return prefs[i].Topic < prefs[j].Topic
	})
	if p.MaxTopics > 0 && len(prefs) > p.MaxTopics {
		for _, dropped := range prefs[p.MaxTopics:] {
			events = append(events, EvolutionEvent{Topic: dropped.Topic, Kind: EvolutionFaded, Weight: dropped.Weight, OccurredAt: at})
		}
		prefs = prefs[:p.MaxTopics]
	}
	return prefs, events
}

func trendOf(before, after, epsilon float64) string {
	if before == 0 {
		return TrendRising
	}
	change := (after - before) / before
	switch {
	case change > epsilon:
		return TrendRising
	case change < -epsilon:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// StrongTopics returns the topics whose weight meets the threshold,
// strongest first.
func StrongTopics(prefs []TopicPreference, threshold float64) []string {
	var out []string
	for _, pref := range prefs {
		if pref.Weight >= threshold {
			out = append(out, pref.Topic)
		}
	}
	return out
}

// PreferenceWeight looks up a topic's weight, zero when absent.
func PreferenceWeight(prefs []TopicPreference, topic string) float64 {
	for _, pref := range prefs {
		if pref.Topic == topic {
			return pref.Weight
		}
	}
	return 0
}

// ContextualPreference tracks how often a reading context (time of day,
// device, location kind) co-occurred with completed sessions, so the
// recommendation engine can weigh situational fit.
type ContextualPreference struct {
	Sessions       int     `json:"sessions"`
	MeanCompletion float64 `json:"mean_completion"`
	MeanLength     float64 `json:"mean_length"`
}

// UpdateContextual folds one session into the running stats for its
// context key.
func UpdateContextual(m map[string]ContextualPreference, key string, completion, sessionMinutes float64) map[string]ContextualPreference {
	if key == "" {
		return m
	}
	if m == nil {
		m = make(map[string]ContextualPreference)
	}
	cp := m[key]
	n := float64(cp.Sessions)
	cp.MeanCompletion = (cp.MeanCompletion*n + clamp01(completion)) / (n + 1)
	cp.MeanLength = (cp.MeanLength*n + math.Max(sessionMinutes, 0)) / (n + 1)
	cp.Sessions++
	m[key] = cp
	return m
}
