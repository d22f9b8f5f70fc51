package adaptation

import (
	"fmt"
	"strings"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

// LevelChange reports how an adaptation moved the measured level.
type LevelChange struct {
	Adapted bool   `json:"adapted"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Result is the outcome of one adaptation request. When no adaptation is
// needed the result is the identity transform.
type Result struct {
	AdaptedContent           string      `json:"adapted_content"`
	OriginalContent          string      `json:"original_content"`
	AdaptationsMade          []string    `json:"adaptations_made"`
	ReadingLevelChange       LevelChange `json:"reading_level_change"`
	CulturalContextPreserved bool        `json:"cultural_context_preserved"`
}

// ShouldAdapt is true iff current is strictly harder than target on the
// four-level order. Unrecognized level names fail safe: no rewrite.
func ShouldAdapt(currentLevel, targetLevel string) bool {
	current, err := analysis.ParseLevel(currentLevel)
	if err != nil {
		return false
	}
	target, err := analysis.ParseLevel(targetLevel)
	if err != nil {
		return false
	}
	return current.HarderThan(target)
}

// Adapter rewrites text toward a target level, using the readability
// analyzer as its oracle for the resulting level.
type Adapter struct {
	cuts policy.ReadabilityPolicy
}

func NewAdapter(cuts policy.ReadabilityPolicy) *Adapter {
	return &Adapter{cuts: cuts}
}

// Maximum words per sentence before the splitter looks for a seam.
const longSentenceWords = 22

// Adapt applies a bounded set of simplification transforms. Every change
// is recorded in AdaptationsMade. preserveMeaning restricts vocabulary
// substitution to the verified-safe list and disables aside trimming.
func (a *Adapter) Adapt(text, language, currentLevel, targetLevel string, preserveMeaning bool) (Result, error) {
	lang, err := analysis.ParseLanguage(language)
	if err != nil {
		return Result{}, err
	}

	identity := Result{
		AdaptedContent:           text,
		OriginalContent:          text,
		AdaptationsMade:          []string{},
		ReadingLevelChange:       LevelChange{Adapted: false, From: currentLevel, To: currentLevel},
		CulturalContextPreserved: true,
	}
	if !ShouldAdapt(currentLevel, targetLevel) {
		return identity, nil
	}

	adapted := text
	made := []string{}

	switch lang {
	case analysis.LanguageEnglish:
		adapted, made = substituteVocabulary(adapted, made, preserveMeaning)
		adapted, made = splitLongEnglishSentences(adapted, made)
		if !preserveMeaning {
			adapted, made = trimParentheticalAsides(adapted, made)
		}
	case analysis.LanguageJapanese:
		adapted, made = splitLongJapaneseSentences(adapted, made)
	}

	if len(made) == 0 {
		return identity, nil
	}

	after, err := analysis.AnalyzeReadability(adapted, language, a.cuts)
	if err != nil {
		return Result{}, err
	}

	return Result{
		AdaptedContent:           adapted,
		OriginalContent:          text,
		AdaptationsMade:          made,
		ReadingLevelChange:       LevelChange{Adapted: true, From: currentLevel, To: after.Level.String()},
		CulturalContextPreserved: true,
	}, nil
}

// safeSubstitutions map hard vocabulary to plain equivalents verified
// not to shift factual content.
var safeSubstitutions = []struct {
	from string
	to   string
}{
	{"approximately", "about"},
	{"utilize", "use"},
	{"utilizes", "uses"},
	{"demonstrate", "show"},
	{"demonstrates", "shows"},
	{"consequently", "so"},
	{"nevertheless", "however"},
	{"numerous", "many"},
	{"sufficient", "enough"},
	{"commence", "begin"},
	{"terminate", "end"},
	{"endeavor", "try"},
	{"subsequently", "later"},
	{"additional", "more"},
	{"fundamental", "basic"},
	{"facilitate", "help"},
	{"prior to", "before"},
	{"in order to", "to"},
}

// looserSubstitutions may soften nuance slightly; only applied when the
// caller has not asked for strict meaning preservation.
var looserSubstitutions = []struct {
	from string
	to   string
}{
	{"notwithstanding", "despite"},
	{"predominantly", "mostly"},
	{"methodology", "method"},
	{"paradigm", "model"},
}

func substituteVocabulary(text string, made []string, preserveMeaning bool) (string, []string) {
	subs := safeSubstitutions
	if !preserveMeaning {
		subs = append(append([]struct{ from, to string }{}, safeSubstitutions...), looserSubstitutions...)
	}
	for _, sub := range subs {
		next, n := replaceWordInsensitive(text, sub.from, sub.to)
		if n > 0 {
			text = next
			made = append(made, fmt.Sprintf("vocabulary_substitution: %s -> %s", sub.from, sub.to))
		}
	}
	return text, made
}

// replaceWordInsensitive replaces whole-phrase case-insensitive matches,
// preserving a leading capital. The substitution lists are plain ASCII,
// so matching folds ASCII case on the original string; offsets never
// pass through ToLower, whose output can differ in byte length for
// runes like U+0130.
func replaceWordInsensitive(text, from, to string) (string, int) {
	count := 0
	var b strings.Builder
	i := 0
	for {
		j := indexASCIIFold(text, from, i)
		if j < 0 {
			b.WriteString(text[i:])
			break
		}
		end := j + len(from)
		if !isWordBoundary(text, j-1) || !isWordBoundary(text, end) {
			b.WriteString(text[i:end])
			i = end
			continue
		}
		b.WriteString(text[i:j])
		replacement := to
		if text[j] >= 'A' && text[j] <= 'Z' && len(replacement) > 0 {
			replacement = strings.ToUpper(replacement[:1]) + replacement[1:]
		}
		b.WriteString(replacement)
		count++
		i = end
	}
	if count == 0 {
		return text, 0
	}
	return b.String(), count
}

// indexASCIIFold finds the first occurrence of the ASCII phrase from in
// s at or after start, ignoring ASCII case. Returns a byte offset into
// s itself.
func indexASCIIFold(s, from string, start int) int {
	for i := start; i+len(from) <= len(s); i++ {
		if asciiFoldEqual(s[i:i+len(from)], from) {
			return i
		}
	}
	return -1
}

func asciiFoldEqual(s, from string) bool {
	for k := 0; k < len(from); k++ {
		c := s[k]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != from[k] {
			return false
		}
	}
	return true
}

func isWordBoundary(s string, idx int) bool {
	if idx < 0 || idx >= len(s) {
		return true
	}
	c := s[idx]
	return !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9')
}

// splitLongEnglishSentences breaks overlong sentences at clause seams
// (", and", ", but", "; ") into two sentences.
func splitLongEnglishSentences(text string, made []string) (string, []string) {
	sentences := splitKeepingTerminators(text)
	var out strings.Builder
	for _, s := range sentences {
		words := strings.Fields(s)
		if len(words) <= longSentenceWords {
			out.WriteString(s)
			continue
		}
		split, ok := splitAtSeam(s)
		if !ok {
			out.WriteString(s)
			continue
		}
		out.WriteString(split)
		made = append(made, fmt.Sprintf("sentence_split: %d-word sentence divided", len(words)))
	}
	return out.String(), made
}

var englishSeams = []struct {
	seam string
	join string
}{
	{", and ", ". And "},
	{", but ", ". But "},
	{"; ", ". "},
	{", which ", ". This "},
}

func splitAtSeam(sentence string) (string, bool) {
	for _, s := range englishSeams {
		if i := strings.Index(sentence, s.seam); i > 0 {
			return sentence[:i] + s.join + strings.TrimSpace(sentence[i+len(s.seam):]), true
		}
	}
	return sentence, false
}

// splitKeepingTerminators cuts text into sentence chunks, each retaining
// its terminator and trailing whitespace.
func splitKeepingTerminators(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			end := i + 1
			for end < len(text) && (text[end] == ' ' || text[end] == '\n' || text[end] == '\t') {
				end++
			}
			out = append(out, text[start:end])
			start = end
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// trimParentheticalAsides drops parenthesized asides. This can lose
// nuance, so it only runs when meaning preservation is off.
func trimParentheticalAsides(text string, made []string) (string, []string) {
	count := 0
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			depth++
			count++
		case ')':
			if depth > 0 {
				depth--
				continue
			}
			b.WriteRune(r)
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	if count == 0 || depth != 0 {
		return text, made
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")
	made = append(made, fmt.Sprintf("aside_removed: %d parenthetical aside(s) dropped", count))
	return cleaned, made
}

// splitLongJapaneseSentences breaks sentences at the comma 、 when they
// run long, keeping the terminal punctuation intact.
func splitLongJapaneseSentences(text string, made []string) (string, []string) {
	const longRunes = 60
	splits := 0
	var rebuilt strings.Builder
	for _, sentence := range splitJapaneseKeep(text) {
		runes := []rune(sentence)
		if len(runes) > longRunes {
			if i := indexRune(runes, '、'); i > 0 && i < len(runes)-1 {
				rebuilt.WriteString(string(runes[:i]) + "。" + string(runes[i+1:]))
				splits++
				continue
			}
		}
		rebuilt.WriteString(sentence)
	}
	if splits == 0 {
		return text, made
	}
	made = append(made, fmt.Sprintf("sentence_split: %d sentence(s) divided at clause breaks", splits))
	return rebuilt.String(), made
}

func splitJapaneseKeep(text string) []string {
	var out []string
	var current []rune
	for _, r := range text {
		current = append(current, r)
		if r == '。' || r == '！' || r == '？' {
			out = append(out, string(current))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}

func indexRune(runes []rune, target rune) int {
	for i, r := range runes {
		if r == target {
			return i
		}
	}
	return -1
}
