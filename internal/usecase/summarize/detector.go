package summarize

import "daily-summary/internal/domain/entity"

// ChineseRatioThreshold is the share of CJK ideographs at or above which a
// text is treated as Chinese.
const ChineseRatioThreshold = 0.08

// DetectLanguage classifies text by the density of CJK Unified Ideographs
// (U+4E00..U+9FFF) among all of its runes. Empty text is English.
func DetectLanguage(text string) entity.Language {
	total, cjk := 0, 0
	for _, r := range text {
		total++
		if r >= 0x4E00 && r <= 0x9FFF {
			cjk++
		}
	}
	ratio := float64(cjk) / float64(max(total, 1))
	if ratio >= ChineseRatioThreshold {
		return entity.LanguageChinese
	}
	return entity.LanguageEnglish
}

// ResolveLanguage returns forced when it names a concrete language and the
// detector's verdict on text otherwise.
func ResolveLanguage(text string, forced entity.Language) entity.Language {
	if forced.IsKnown() {
		return forced
	}
	return DetectLanguage(text)
}
