package analysis

import (
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// Complexity carries the language-independent complexity signals used by
// downstream scoring.
type Complexity struct {
	LexicalDiversity  float64 `json:"lexical_diversity"`
	ComplexWordRatio  float64 `json:"complex_word_ratio"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
}

// ReadabilityResult is the per-language readability outcome. Exactly one
// of English/Japanese is set, matching Language.
type ReadabilityResult struct {
	Language Language `json:"language"`
	Level    Level    `json:"level"`

	English  *EnglishMetrics  `json:"english,omitempty"`
	Japanese *JapaneseMetrics `json:"japanese,omitempty"`

	Complexity Complexity `json:"complexity"`
}

// AnalyzeReadability scores text for the given language key. Unsupported
// languages fail; empty text classifies as beginner with zeroed counts.
func AnalyzeReadability(text, language string, cuts policy.ReadabilityPolicy) (ReadabilityResult, error) {
	lang, err := ParseLanguage(language)
	if err != nil {
		return ReadabilityResult{}, err
	}

	out := ReadabilityResult{Language: lang}
	switch lang {
	case LanguageEnglish:
		level, m := analyzeEnglish(text, cuts)
		out.Level = level
		out.English = &m
		out.Complexity = Complexity{
			LexicalDiversity:  m.LexicalDiversity,
			ComplexWordRatio:  m.ComplexWordRatio,
			AvgSentenceLength: m.AvgSentenceLength,
		}
	case LanguageJapanese:
		level, m := analyzeJapanese(text, cuts)
		out.Level = level
		out.Japanese = &m
		out.Complexity = Complexity{
			LexicalDiversity:  kanaKanjiDiversity(m),
			ComplexWordRatio:  m.KanjiDensity,
			AvgSentenceLength: m.AvgSentenceRunes,
		}
	}
	return out, nil
}

func kanaKanjiDiversity(m JapaneseMetrics) float64 {
	if m.TotalCharacters == 0 {
		return 0
	}
	scripts := 0
	for _, n := range []int{m.KanjiCount, m.HiraganaCount, m.KatakanaCount} {
		if n > 0 {
			scripts++
		}
	}
	return round2(float64(scripts) / 3.0)
}
