package questiongen

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/abhisek/phasa/internal/quiz"
)

// blankFirst replaces the first occurrence of word in sentence with the
// blank marker.
func blankFirst(sentence, word string) (string, bool) {
	sentence = strings.TrimSpace(sentence)
	if word == "" || !strings.Contains(sentence, word) {
		return "", false
	}
	return strings.Replace(sentence, word, quiz.Blank, 1), true
}

// blankRun matches the ways a model tends to write a blank.
var blankRun = regexp.MustCompile(`_{2,}|\[\s*blank\s*\]|\{\s*blank\s*\}`)

// normalizeBlanks rewrites any blank spelling to the canonical marker.
func normalizeBlanks(prompt string) string {
	return blankRun.ReplaceAllString(prompt, quiz.Blank)
}

// splitTokens splits s on whitespace runs, keeping each run attached to the
// token before it so the tokens concatenate back to s.
func splitTokens(s string) []string {
	var out []string
	start, inSpace := 0, false
	for i, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			out = append(out, s[start:i])
			start, inSpace = i, false
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// sentenceTokens returns reorder tokens for an example sentence. Thai is
// usually written without spaces, so a sentence that does not split on
// whitespace is cut around the target word instead.
func sentenceTokens(sentence, word string) []string {
	sentence = strings.TrimSpace(sentence)
	if tokens := splitTokens(sentence); len(tokens) >= 2 {
		return tokens
	}
	i := strings.Index(sentence, word)
	if word == "" || i < 0 {
		return nil
	}
	var tokens []string
	for _, part := range []string{sentence[:i], word, sentence[i+len(word):]} {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
