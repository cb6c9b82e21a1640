// Package text provides rune-aware helpers shared by the chunker, the
// compression engine and the delivery channels.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Chinese text, emoji and other multi-byte characters count as one each.
//
//	CountRunes("hello")     // 5
//	CountRunes("你好世界")    // 4
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate returns the first max runes of text. It never splits a
// multi-byte character. A non-positive max yields "".
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		// byte length bounds rune length
		return text
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}

// TruncateWithSuffix shortens text to at most max runes including suffix.
func TruncateWithSuffix(text string, max int, suffix string) string {
	if CountRunes(text) <= max {
		return text
	}
	keep := max - CountRunes(suffix)
	if keep < 0 {
		keep = 0
	}
	return Truncate(text, keep) + suffix
}
