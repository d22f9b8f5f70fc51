package recommendation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"

	"github.com/google/uuid"
)

// DiscoveryRecommendation is one divergent-but-reachable result.
type DiscoveryRecommendation struct {
	ContentID       uuid.UUID `json:"content_id"`
	Title           string    `json:"title"`
	DivergenceScore float64   `json:"divergence_score"`
	BridgingTopics  []string  `json:"bridging_topics"`
	Reason          string    `json:"discovery_reason"`
}

// Discover inverts the contextual ranker's topic objective: it rewards
// candidates whose topics the user has not shown strong preference for,
// but keeps only candidates that share at least one topic with the
// user's strong preferences. Divergence without a bridge is noise, not
// discovery.
func Discover(candidates []Candidate, prefs []profile.TopicPreference, limit int, p policy.DiscoveryPolicy) []DiscoveryRecommendation {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}
	strong := make(map[string]bool)
	for _, topic := range profile.StrongTopics(prefs, p.StrongPreference) {
		strong[topic] = true
	}

	scored := make([]DiscoveryRecommendation, 0, len(candidates))
	order := make(map[uuid.UUID]time.Time, len(candidates))
	for _, c := range candidates {
		if len(c.Topics) == 0 {
			continue
		}
		var bridges []string
		var divergence, mass float64
		for _, t := range c.Topics {
			if strong[t.Topic] {
				bridges = append(bridges, t.Topic)
			}
			// Familiarity is the user's current weight; divergence is
			// the unfamiliar remainder, weighted by the analyzer's
			// confidence that the topic is really present.
			divergence += (1 - profile.PreferenceWeight(prefs, t.Topic)) * t.Confidence
			mass += t.Confidence
		}
		if len(bridges) == 0 || mass == 0 {
			continue
		}
		divergence /= mass
		if divergence < p.MinDivergence {
			continue
		}
		if p.BridgeCap > 0 && len(bridges) > p.BridgeCap {
			bridges = bridges[:p.BridgeCap]
		}
		scored = append(scored, DiscoveryRecommendation{
			ContentID:       c.ContentID,
			Title:           c.Title,
			DivergenceScore: divergence,
			BridgingTopics:  bridges,
			Reason:          fmt.Sprintf("something new, connected to your interest in %s", strings.Join(bridges, ", ")),
		})
		order[c.ContentID] = c.PublishedAt
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].DivergenceScore != scored[j].DivergenceScore {
			return scored[i].DivergenceScore > scored[j].DivergenceScore
		}
		return order[scored[i].ContentID].After(order[scored[j].ContentID])
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
