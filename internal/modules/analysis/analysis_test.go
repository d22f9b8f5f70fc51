package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/readbridge-backend/internal/modules/policy"
)

type fixedEmbedder struct {
	dim   int
	calls int
}

func (f *fixedEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(inputs))
	for i, s := range inputs {
		vec := make([]float32, f.dim)
		for j := range vec {
			vec[j] = float32(len(s)%7) * 0.1
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fixedEmbedder) Dimension() int { return f.dim }

func TestParseLanguage(t *testing.T) {
	for _, raw := range []string{"english", "English", "EN", "en_US", "en-GB", "ja", "JA_JP", "Japanese"} {
		if _, err := ParseLanguage(raw); err != nil {
			t.Fatalf("ParseLanguage(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"french", "FR", "de_DE", "", "klingon"} {
		if _, err := ParseLanguage(raw); err == nil {
			t.Fatalf("ParseLanguage(%q): expected error", raw)
		}
	}
}

func TestAnalyzeReadabilityLevelAlwaysValid(t *testing.T) {
	cuts := policy.Default().Readability
	texts := []string{
		"",
		"Hi.",
		"The cat sat on the mat. The dog ran fast.",
		strings.Repeat("The incomprehensibility of multidimensional philosophical argumentation necessitates considerable intellectual perseverance. ", 5),
	}
	for _, text := range texts {
		res, err := AnalyzeReadability(text, "english", cuts)
		if err != nil {
			t.Fatalf("AnalyzeReadability(%q): %v", text, err)
		}
		if !res.Level.Valid() {
			t.Fatalf("invalid level %v for text %q", res.Level, text)
		}
	}
}

func TestAnalyzeReadabilityEmptyText(t *testing.T) {
	cuts := policy.Default().Readability
	res, err := AnalyzeReadability("", "english", cuts)
	if err != nil {
		t.Fatalf("empty text must not error: %v", err)
	}
	if res.Level != LevelBeginner {
		t.Fatalf("empty text level = %v, want beginner", res.Level)
	}
	if res.English == nil || res.English.WordCount != 0 || res.English.SentenceCount != 0 {
		t.Fatalf("empty text counts must be zero: %+v", res.English)
	}

	res, err = AnalyzeReadability("", "japanese", cuts)
	if err != nil {
		t.Fatalf("empty japanese text must not error: %v", err)
	}
	if res.Level != LevelBeginner {
		t.Fatalf("empty japanese level = %v, want beginner", res.Level)
	}
}

func TestAnalyzeReadabilityUnsupportedLanguage(t *testing.T) {
	cuts := policy.Default().Readability
	for _, lang := range []string{"french", "FR_fr", "Korean", "zh"} {
		_, err := AnalyzeReadability("some text", lang, cuts)
		if err == nil {
			t.Fatalf("language %q: expected error", lang)
		}
		if !strings.Contains(err.Error(), "unsupported language") {
			t.Fatalf("language %q: unexpected error %v", lang, err)
		}
	}
}

func TestEnglishGradeOrdering(t *testing.T) {
	cuts := policy.Default().Readability
	simple := "The cat sat. The dog ran. We had fun. It was a good day."
	dense := "Notwithstanding considerable epistemological disagreement, contemporary philosophers increasingly acknowledge that scientific methodology fundamentally presupposes unverifiable metaphysical commitments regarding causality."

	_, sm := analyzeEnglish(simple, cuts)
	_, dm := analyzeEnglish(dense, cuts)
	if sm.FleschKincaidGrade >= dm.FleschKincaidGrade {
		t.Fatalf("grade ordering: simple=%.2f dense=%.2f", sm.FleschKincaidGrade, dm.FleschKincaidGrade)
	}
	if dm.ComplexWordRatio <= sm.ComplexWordRatio {
		t.Fatalf("complex word ratio ordering: simple=%.2f dense=%.2f", sm.ComplexWordRatio, dm.ComplexWordRatio)
	}
}

func TestJapaneseSentenceSplit(t *testing.T) {
	sentences := splitJapaneseSentences("これはテストです。面白いですか？はい！")
	if len(sentences) != 3 {
		t.Fatalf("sentences = %d, want 3 (%v)", len(sentences), sentences)
	}
	for _, s := range sentences {
		if strings.TrimSpace(s) == "" {
			t.Fatalf("empty sentence in %v", sentences)
		}
	}
}

func TestJapaneseKanjiDensity(t *testing.T) {
	cuts := policy.Default().Readability
	kana := "これはとてもやさしいぶんしょうです。"
	heavy := "政治経済状況分析及評価対象。"

	kanaLevel, kanaM := analyzeJapanese(kana, cuts)
	heavyLevel, heavyM := analyzeJapanese(heavy, cuts)

	if kanaM.KanjiDensity >= heavyM.KanjiDensity {
		t.Fatalf("kanji density ordering: kana=%.2f heavy=%.2f", kanaM.KanjiDensity, heavyM.KanjiDensity)
	}
	if kanaLevel != LevelBeginner {
		t.Fatalf("kana-only text level = %v, want beginner", kanaLevel)
	}
	if !heavyLevel.HarderThan(kanaLevel) {
		t.Fatalf("kanji-heavy level %v not harder than %v", heavyLevel, kanaLevel)
	}
}

func TestExtractorDeterministic(t *testing.T) {
	emb := &fixedEmbedder{dim: 128}
	ex := NewExtractor(emb)
	ctx := context.Background()

	text := "Quantum computing promises quantum supremacy. Quantum computing hardware requires error correction. Error correction remains the central engineering obstacle."
	first, err := ex.Extract(ctx, text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := ex.Extract(ctx, text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(first.Topics) != len(second.Topics) {
		t.Fatalf("topic count differs: %d vs %d", len(first.Topics), len(second.Topics))
	}
	for i := range first.Topics {
		if first.Topics[i] != second.Topics[i] {
			t.Fatalf("topic %d differs: %+v vs %+v", i, first.Topics[i], second.Topics[i])
		}
	}
	if len(first.Embedding) != 128 || len(second.Embedding) != 128 {
		t.Fatalf("embedding dimension drifted: %d / %d", len(first.Embedding), len(second.Embedding))
	}
	if len(first.Topics) == 0 {
		t.Fatalf("expected topics for topical text")
	}
	for _, topic := range first.Topics {
		if topic.Confidence < 0 || topic.Confidence > 1 {
			t.Fatalf("confidence out of range: %+v", topic)
		}
	}
	for i := 1; i < len(first.Topics); i++ {
		if first.Topics[i].Confidence > first.Topics[i-1].Confidence {
			t.Fatalf("topics not sorted by confidence: %+v", first.Topics)
		}
	}
}

func TestExtractorEmptyText(t *testing.T) {
	emb := &fixedEmbedder{dim: 64}
	ex := NewExtractor(emb)

	out, err := ex.Extract(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Extract on empty text: %v", err)
	}
	if len(out.Embedding) != 64 {
		t.Fatalf("empty-text embedding dim = %d, want 64", len(out.Embedding))
	}
	for _, v := range out.Embedding {
		if v != 0 {
			t.Fatalf("empty-text embedding must be zero vector")
		}
	}
	if emb.calls != 0 {
		t.Fatalf("embedder must not be called for empty text")
	}
	if len(out.Topics) != 0 {
		t.Fatalf("empty text topics = %v, want none", out.Topics)
	}
}

func TestAnalyzerPropagatesUnsupportedLanguage(t *testing.T) {
	emb := &fixedEmbedder{dim: 32}
	a := NewAnalyzer(emb, policy.Default().Readability)

	_, err := a.AnalyzeContent(context.Background(), "bonjour le monde", "french")
	if err == nil {
		t.Fatalf("expected unsupported language error")
	}
	if emb.calls != 0 {
		t.Fatalf("extractor must not run when the language is rejected")
	}
}

func TestLevelOrdering(t *testing.T) {
	if !LevelExpert.HarderThan(LevelAdvanced) || !LevelAdvanced.HarderThan(LevelIntermediate) || !LevelIntermediate.HarderThan(LevelBeginner) {
		t.Fatalf("level order broken")
	}
	if LevelBeginner.HarderThan(LevelBeginner) {
		t.Fatalf("a level must not be harder than itself")
	}
	var unknown Level
	if unknown.HarderThan(LevelBeginner) || LevelBeginner.HarderThan(unknown) {
		t.Fatalf("comparisons with invalid levels must be false")
	}
}
