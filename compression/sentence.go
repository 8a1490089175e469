package compression

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sentenceBoundary matches one terminal mark (ASCII or full-width) plus trailing space.
var sentenceBoundary = regexp.MustCompile(`[.!?。！？]\s*`)

// Sentences lazily yields the segments of text between terminal punctuation marks.
// A trailing empty segment is yielded when text ends with a terminal mark, and text
// without any terminal mark is yielded whole. Ranging over the result twice restarts it.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for {
			loc := sentenceBoundary.FindStringIndex(rest)
			if loc == nil {
				yield(rest)
				return
			}
			if !yield(rest[:loc[0]]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// SplitSentences collects Sentences into a slice.
func SplitSentences(text string) []string {
	return slices.Collect(Sentences(text))
}

// Normalize collapses whitespace runs and case-folds a sentence for comparison.
func Normalize(sentence string) string {
	return strings.ToLower(strings.Join(strings.Fields(sentence), " "))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
