package analysis

import (
	"strings"
	"unicode"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// JapaneseMetrics are the numeric sub-scores behind a Japanese
// classification. KanjiDensity is the primary score mapped to the level
// buckets.
type JapaneseMetrics struct {
	KanjiCount      int     `json:"kanji_count"`
	HiraganaCount   int     `json:"hiragana_count"`
	KatakanaCount   int     `json:"katakana_count"`
	TotalCharacters int     `json:"total_characters"`
	SentenceCount   int     `json:"sentence_count"`
	KanjiDensity    float64 `json:"kanji_density"`
	AvgSentenceRunes float64 `json:"avg_sentence_runes"`
}

func analyzeJapanese(text string, cuts policy.ReadabilityPolicy) (Level, JapaneseMetrics) {
	m := JapaneseMetrics{}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return LevelBeginner, m
	}

	runes := 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		runes++
		switch {
		case isKanji(r):
			m.KanjiCount++
		case isHiragana(r):
			m.HiraganaCount++
		case isKatakana(r):
			m.KatakanaCount++
		}
	}
	m.TotalCharacters = runes

	sentences := splitJapaneseSentences(trimmed)
	m.SentenceCount = len(sentences)
	if m.SentenceCount > 0 {
		total := 0
		for _, s := range sentences {
			total += len([]rune(s))
		}
		m.AvgSentenceRunes = round2(float64(total) / float64(m.SentenceCount))
	}

	if m.TotalCharacters > 0 {
		m.KanjiDensity = round2(float64(m.KanjiCount) / float64(m.TotalCharacters))
	}

	return japaneseLevel(m.KanjiDensity, cuts), m
}

func japaneseLevel(density float64, cuts policy.ReadabilityPolicy) Level {
	switch {
	case density <= cuts.JapaneseBeginnerMax:
		return LevelBeginner
	case density <= cuts.JapaneseIntermediateMax:
		return LevelIntermediate
	case density <= cuts.JapaneseAdvancedMax:
		return LevelAdvanced
	default:
		return LevelExpert
	}
}

// splitJapaneseSentences splits on the terminal punctuation 。！？ and
// never yields a trailing empty sentence.
func splitJapaneseSentences(text string) []string {
	var out []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '。' || r == '！' || r == '？' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		out = append(out, rest)
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

func isKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

func isHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

func isKatakana(r rune) bool {
	return r >= 0x30A0 && r <= 0x30FF
}
