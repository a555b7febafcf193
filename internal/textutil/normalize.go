package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nonWordPattern matches runs of characters that carry no matching signal:
// everything except letters, digits, underscores, and spaces.
var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_ ]+`)

// NormalizeForMatch folds text into the canonical form used on both sides of
// a chapter/transcript comparison: NFC-normalized, lower-cased, punctuation
// replaced with spaces, whitespace collapsed, and trimmed.
func NormalizeForMatch(text string) string {
	folded := strings.ToLower(norm.NFC.String(text))
	folded = nonWordPattern.ReplaceAllString(folded, " ")
	return CollapseWhitespace(folded)
}

// SearchWords splits normalized text into the words worth matching on.
// Words of three characters or fewer are dropped; short function words
// appear everywhere in narration and only dilute match scores.
func SearchWords(normalized string) []string {
	raw := strings.Split(normalized, " ")
	words := make([]string, 0, len(raw))
	for _, word := range raw {
		if len(word) > 3 {
			words = append(words, word)
		}
	}
	return words
}

// CollapseWhitespace reduces every run of whitespace to a single space and
// trims the result.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TruncateRunes shortens text to at most limit runes without splitting a
// multi-byte character.
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
