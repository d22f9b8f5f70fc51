package analysis

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// EnglishMetrics are the numeric sub-scores behind an English
// classification. FleschKincaidGrade is the primary score mapped to the
// level buckets; SMOG and Coleman-Liau are reported alongside.
type EnglishMetrics struct {
	SentenceCount      int     `json:"sentence_count"`
	WordCount          int     `json:"word_count"`
	SyllableCount      int     `json:"syllable_count"`
	ComplexWordCount   int     `json:"complex_word_count"`
	ComplexWordRatio   float64 `json:"complex_word_ratio"`
	LexicalDiversity   float64 `json:"lexical_diversity"`
	AvgSentenceLength  float64 `json:"avg_sentence_length"`
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`
	SMOGIndex          float64 `json:"smog_index"`
	ColemanLiauIndex   float64 `json:"coleman_liau_index"`
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

func analyzeEnglish(text string, cuts policy.ReadabilityPolicy) (Level, EnglishMetrics) {
	m := EnglishMetrics{}
	words := englishWords(text)
	if len(words) == 0 {
		return LevelBeginner, m
	}

	m.WordCount = len(words)
	m.SentenceCount = countEnglishSentences(text)

	unique := make(map[string]struct{}, len(words))
	letters := 0
	for _, w := range words {
		unique[w] = struct{}{}
		syl := countSyllables(w)
		m.SyllableCount += syl
		if isComplexWord(w, syl) {
			m.ComplexWordCount++
		}
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
			}
		}
	}

	m.ComplexWordRatio = float64(m.ComplexWordCount) / float64(m.WordCount)
	m.LexicalDiversity = float64(len(unique)) / float64(m.WordCount)
	m.AvgSentenceLength = float64(m.WordCount) / float64(m.SentenceCount)

	wordsPerSentence := float64(m.WordCount) / float64(m.SentenceCount)
	syllablesPerWord := float64(m.SyllableCount) / float64(m.WordCount)

	m.FleschKincaidGrade = round2(0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59)
	if m.FleschKincaidGrade < 0 {
		m.FleschKincaidGrade = 0
	}

	m.SMOGIndex = round2(1.043*math.Sqrt(float64(m.ComplexWordCount)*(30.0/float64(m.SentenceCount))) + 3.1291)

	lettersPer100 := float64(letters) / float64(m.WordCount) * 100
	sentencesPer100 := float64(m.SentenceCount) / float64(m.WordCount) * 100
	m.ColemanLiauIndex = round2(0.0588*lettersPer100 - 0.296*sentencesPer100 - 15.8)

	return englishLevel(m.FleschKincaidGrade, cuts), m
}

func englishLevel(grade float64, cuts policy.ReadabilityPolicy) Level {
	switch {
	case grade <= cuts.EnglishBeginnerMax:
		return LevelBeginner
	case grade <= cuts.EnglishIntermediateMax:
		return LevelIntermediate
	case grade <= cuts.EnglishAdvancedMax:
		return LevelAdvanced
	default:
		return LevelExpert
	}
}

func englishWords(text string) []string {
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	return strings.Fields(text)
}

func countEnglishSentences(text string) int {
	n := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// countSyllables approximates syllables by counting vowel groups, with a
// silent-e adjustment. A heuristic, not a dictionary lookup.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	if word == "" {
		return 0
	}
	count := 0
	prevWasVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevWasVowel {
			count++
		}
		prevWasVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// isComplexWord marks words of three or more syllables, discounting the
// common inflectional suffixes that push an otherwise plain word over
// the line ("watches", "disputed").
func isComplexWord(word string, syllables int) bool {
	if syllables < 3 {
		return false
	}
	for _, suffix := range []string{"es", "ed", "ing"} {
		if strings.HasSuffix(word, suffix) {
			base := strings.TrimSuffix(word, suffix)
			if base != "" && countSyllables(base) < 3 {
				return false
			}
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
