package entity

import "strings"

// Language is the output language of a summary.
// The zero value means "not forced": the detector decides.
type Language string

const (
	LanguageAuto    Language = ""
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
)

// IsKnown reports whether l is one of the concrete output languages.
func (l Language) IsKnown() bool {
	return l == LanguageEnglish || l == LanguageChinese
}

func (l Language) String() string {
	if l == LanguageAuto {
		return "auto"
	}
	return string(l)
}

// ParseLanguage parses a user supplied language flag.
// Accepted values are "en", "zh", "auto" and "" (case-insensitive).
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return LanguageAuto, nil
	case "en":
		return LanguageEnglish, nil
	case "zh":
		return LanguageChinese, nil
	default:
		return LanguageAuto, &ValidationError{
			Field:   "language",
			Message: "must be one of auto, en, zh; got " + s,
		}
	}
}
