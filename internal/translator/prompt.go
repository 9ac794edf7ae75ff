package translator

import (
	"fmt"
	"strings"
)

// translationPrompt asks an LLM for an English phrase that reads well as an
// identifier once split on whitespace.
func translationPrompt(text string) string {
	return fmt.Sprintf(`Translate the following text into a short English phrase that a programmer would use as a variable name.
Rules:
- Reply with the phrase only, on one line.
- Use plain words separated by single spaces. No punctuation, quotes, or code formatting.
- Keep it under six words.

Text: %s`, text)
}

// cleanCompletion reduces a model reply to its first non-empty line with
// surrounding quotes and backticks removed.
func cleanCompletion(s string) string {
	for line := range strings.SplitSeq(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "\"'`")
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
