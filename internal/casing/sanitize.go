package casing

import "strings"

// Sanitize strips every character that is not an ASCII letter, digit or
// underscore, and prefixes "_" when the result would start with a digit.
//
//	"company'sName"   -> "companysName"
//	"1_million_count" -> "_1_million_count"
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if isIdentRune(r) {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out != "" && out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
