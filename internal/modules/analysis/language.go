package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// Language is the closed set of supported content languages.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageJapanese Language = "japanese"
)

// ErrUnsupportedLanguage is returned for any language key outside the
// supported set. Callers must not default around it.
var ErrUnsupportedLanguage = errors.New("unsupported language")

func IsUnsupportedLanguage(err error) bool {
	return errors.Is(err, ErrUnsupportedLanguage)
}

// ParseLanguage normalizes a language key. Case-insensitive; locale
// variants such as "en_US" or "ja-JP" collapse to their base language.
func ParseLanguage(raw string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	if i := strings.Index(key, "_"); i >= 0 {
		key = key[:i]
	}
	switch key {
	case "english", "en", "eng":
		return LanguageEnglish, nil
	case "japanese", "ja", "jpn":
		return LanguageJapanese, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
	}
}
