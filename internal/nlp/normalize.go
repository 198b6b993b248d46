package nlp

import "unicode"

// IsHangulSyllable reports whether r is a precomposed Hangul syllable (가-힣).
func IsHangulSyllable(r rune) bool {
	return r >= '가' && r <= '힣'
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Normalize replaces every rune that is not whitespace, a Hangul syllable
// or an ASCII letter or digit with a single space. Rune count and token
// boundaries are preserved.
func Normalize(text string) string {
	out := []rune(text)
	for i, r := range out {
		if unicode.IsSpace(r) || IsHangulSyllable(r) || isASCIIAlnum(r) {
			continue
		}
		out[i] = ' '
	}
	return string(out)
}
