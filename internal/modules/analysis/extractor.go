package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Embedder is the external embedding capability. Implementations must be
// deterministic for identical input and always return vectors of one
// fixed dimension.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	Dimension() int
}

// Topic is a salience-ranked tag with confidence in [0,1].
type Topic struct {
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

// Extraction is the topic/embedding/key-phrase bundle for one text.
type Extraction struct {
	Topics     []Topic   `json:"topics"`
	KeyPhrases []string  `json:"key_phrases"`
	Embedding  []float32 `json:"embedding"`
}

const (
	maxTopics     = 10
	maxKeyPhrases = 5
	minTokenLen   = 4
)

type Extractor struct {
	embedder Embedder
}

func NewExtractor(embedder Embedder) *Extractor {
	return &Extractor{embedder: embedder}
}

// Extract runs keyword salience ranking and embedding generation. An
// empty topic list is a legitimate outcome for short or generic text,
// not an error. The embedding for empty input is the zero vector at the
// embedder's dimension.
func (e *Extractor) Extract(ctx context.Context, text string) (Extraction, error) {
	out := Extraction{
		Topics:     extractTopics(text),
		KeyPhrases: extractKeyPhrases(text),
	}

	if strings.TrimSpace(text) == "" {
		out.Embedding = make([]float32, e.embedder.Dimension())
		return out, nil
	}

	vectors, err := e.embedder.Embed(ctx, []string{text})
	if err != nil {
		return Extraction{}, fmt.Errorf("embed content: %w", err)
	}
	if len(vectors) == 0 {
		return Extraction{}, fmt.Errorf("embed content: empty response")
	}
	out.Embedding = vectors[0]
	return out, nil
}

// extractTopics ranks tokens by frequency weighted by length, then
// normalizes the top scores into confidences.
func extractTopics(text string) []Topic {
	tokens := tokenize(text)
	freq := make(map[string]int)
	for _, tok := range tokens {
		if len(tok) >= minTokenLen && !stopwords[tok] {
			freq[tok]++
		}
	}
	if len(freq) == 0 {
		return nil
	}

	type scored struct {
		term  string
		score float64
	}
	scores := make([]scored, 0, len(freq))
	best := 0.0
	for term, count := range freq {
		s := float64(count) * float64(len(term))
		scores = append(scores, scored{term: term, score: s})
		if s > best {
			best = s
		}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].term < scores[j].term
	})

	n := len(scores)
	if n > maxTopics {
		n = maxTopics
	}
	out := make([]Topic, 0, n)
	for _, s := range scores[:n] {
		out = append(out, Topic{Topic: s.term, Confidence: round2(s.score / best)})
	}
	return out
}

// extractKeyPhrases surfaces repeated two-word phrases.
func extractKeyPhrases(text string) []string {
	tokens := tokenize(text)
	phrases := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		a, b := tokens[i], tokens[i+1]
		if len(a) < 3 || len(b) < 3 || stopwords[a] || stopwords[b] {
			continue
		}
		phrases[a+" "+b]++
	}

	type phraseCount struct {
		phrase string
		count  int
	}
	var counts []phraseCount
	for phrase, count := range phrases {
		if count > 1 {
			counts = append(counts, phraseCount{phrase, count})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].phrase < counts[j].phrase
	})

	n := len(counts)
	if n > maxKeyPhrases {
		n = maxKeyPhrases
	}
	out := make([]string, 0, n)
	for _, c := range counts[:n] {
		out = append(out, c.phrase)
	}
	return out
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

var stopwords = func() map[string]bool {
	list := []string{
		"a", "about", "above", "after", "again", "all", "also", "and", "any",
		"are", "because", "been", "before", "being", "below", "between",
		"both", "but", "can", "could", "did", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "had", "has",
		"have", "having", "her", "here", "hers", "him", "his", "how", "into",
		"its", "itself", "just", "more", "most", "not", "now", "off", "once",
		"only", "other", "our", "ours", "out", "over", "own", "same", "she",
		"should", "some", "such", "than", "that", "the", "their", "theirs",
		"them", "then", "there", "these", "they", "this", "those", "through",
		"under", "until", "very", "was", "were", "what", "when", "where",
		"which", "while", "who", "whom", "why", "will", "with", "would",
		"you", "your", "yours",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()
