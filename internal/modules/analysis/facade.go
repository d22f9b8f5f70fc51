package analysis

import (
	"context"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// ContentAnalysis is the complete derived snapshot for one text: the
// readability outcome plus topics, key phrases and the embedding.
type ContentAnalysis struct {
	Language   Language   `json:"language"`
	Level      Level      `json:"level"`
	English    *EnglishMetrics  `json:"english,omitempty"`
	Japanese   *JapaneseMetrics `json:"japanese,omitempty"`
	Complexity Complexity `json:"complexity"`
	Topics     []Topic    `json:"topics"`
	KeyPhrases []string   `json:"key_phrases"`
	Embedding  []float32  `json:"embedding"`
	WordCount  int        `json:"word_count"`
}

// Analyzer composes the readability analyzer and the topic/embedding
// extractor. It is a pure function of its inputs; persistence belongs to
// the caller.
type Analyzer struct {
	extractor *Extractor
	cuts      policy.ReadabilityPolicy
}

func NewAnalyzer(embedder Embedder, cuts policy.ReadabilityPolicy) *Analyzer {
	return &Analyzer{extractor: NewExtractor(embedder), cuts: cuts}
}

// AnalyzeContent scores and tags a text. An unsupported language fails
// before the extractor is consulted.
func (a *Analyzer) AnalyzeContent(ctx context.Context, text, language string) (ContentAnalysis, error) {
	readability, err := AnalyzeReadability(text, language, a.cuts)
	if err != nil {
		return ContentAnalysis{}, err
	}

	extraction, err := a.extractor.Extract(ctx, text)
	if err != nil {
		return ContentAnalysis{}, err
	}

	return ContentAnalysis{
		Language:   readability.Language,
		Level:      readability.Level,
		English:    readability.English,
		Japanese:   readability.Japanese,
		Complexity: readability.Complexity,
		Topics:     extraction.Topics,
		KeyPhrases: extraction.KeyPhrases,
		Embedding:  extraction.Embedding,
		WordCount:  wordCount(text, readability.Language),
	}, nil
}

func wordCount(text string, lang Language) int {
	switch lang {
	case LanguageJapanese:
		n := 0
		for _, r := range text {
			if isKanji(r) || isHiragana(r) || isKatakana(r) {
				n++
			}
		}
		return n
	default:
		return len(englishWords(text))
	}
}
