// Package casing derives identifier naming conventions from a free-text phrase.
package casing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Forms holds the three naming conventions rendered for a phrase.
type Forms struct {
	Camel  string
	Pascal string
	Snake  string
}

// Convert derives all three forms and sanitizes each into a valid identifier.
func Convert(phrase string) Forms {
	return Forms{
		Camel:  Sanitize(Camel(phrase)),
		Pascal: Sanitize(Pascal(phrase)),
		Snake:  Sanitize(Snake(phrase)),
	}
}

// Words splits a phrase on any run of Unicode whitespace.
func Words(phrase string) []string {
	return strings.FieldsFunc(phrase, unicode.IsSpace)
}

// Camel lowercases the first word and capitalizes each following word.
func Camel(phrase string) string {
	words := Words(phrase)
	if len(words) == 0 {
		return ""
	}

	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Pascal capitalizes every word.
func Pascal(phrase string) string {
	// cases.Caser keeps state and must not be shared across goroutines.
	title := cases.Title(language.Und)

	var b strings.Builder
	for _, w := range Words(phrase) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Snake lowercases every word and joins them with underscores.
func Snake(phrase string) string {
	words := Words(phrase)
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}
