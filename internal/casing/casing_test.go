package casing

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestCamel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Two words", "Hello World", "helloWorld"},
		{"Translated phrase", "Change user permission", "changeUserPermission"},
		{"Upper acronym", "HTTP server", "httpServer"},
		{"Extra whitespace", "  get \t user   id ", "getUserId"},
		{"Single word", "Count", "count"},
		{"Empty", "", ""},
		{"Whitespace only", " \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Camel(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Two words", "hello world", "HelloWorld"},
		{"Translated phrase", "Change user permission", "ChangeUserPermission"},
		{"Mixed case", "gET uSER", "GetUser"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Pascal(tt.input))
		})
	}
}

func TestSnake(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Two words", "Hello World", "hello_world"},
		{"Translated phrase", "Change user permission", "change_user_permission"},
		{"Collapses whitespace", "a   b\tc", "a_b_c"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Snake(tt.input))
		})
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	got := Convert("Change User Permission")
	assert.Equal(t, Forms{
		Camel:  "changeUserPermission",
		Pascal: "ChangeUserPermission",
		Snake:  "change_user_permission",
	}, got)

	assert.Equal(t, Forms{}, Convert(""))
}

func TestConvert_SanitizesPunctuation(t *testing.T) {
	t.Parallel()

	got := Convert("user's 1st-order")
	assert.Equal(t, "users_1storder", got.Snake)
	for _, form := range []string{got.Camel, got.Pascal, got.Snake} {
		assert.Equal(t, form, Sanitize(form), "forms are already sanitized")
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"company'sName", "companysName"},
		{"1_million_count", "_1_million_count"},
		{"already_valid", "already_valid"},
		{"사용자Name", "Name"},
		{"a-b.c d", "abcd"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

// randomPhrase builds 1-5 ASCII words of mixed case separated by random whitespace.
func randomPhrase(r *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	seps := []string{" ", "  ", "\t", "\n "}

	n := 1 + r.IntN(5)
	words := make([]string, n)
	for i := range words {
		var b strings.Builder
		for range 1 + r.IntN(8) {
			b.WriteByte(letters[r.IntN(len(letters))])
		}
		words[i] = b.String()
	}

	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteString(seps[r.IntN(len(seps))])
		}
		b.WriteString(w)
	}
	return b.String()
}

func TestCasingProperties(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewPCG(42, 7))

	for range 500 {
		phrase := randomPhrase(r)

		camel := Camel(phrase)
		pascal := Pascal(phrase)
		snake := Snake(phrase)

		first := []rune(camel)[0]
		if !unicode.IsLower(first) {
			t.Fatalf("Camel(%q) = %q, want lowercase first letter", phrase, camel)
		}
		first = []rune(pascal)[0]
		if !unicode.IsUpper(first) {
			t.Fatalf("Pascal(%q) = %q, want uppercase first letter", phrase, pascal)
		}
		if snake != strings.ToLower(snake) {
			t.Fatalf("Snake(%q) = %q, want all lowercase", phrase, snake)
		}
		if got := len(strings.Split(snake, "_")); got != len(Words(phrase)) {
			t.Fatalf("Snake(%q) = %q has %d parts, want %d", phrase, snake, got, len(Words(phrase)))
		}
		if strings.ContainsAny(camel+pascal+snake, " \t\n") {
			t.Fatalf("whitespace leaked into forms of %q", phrase)
		}
	}
}
