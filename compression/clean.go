package compression

import (
	"regexp"
	"strings"
)

var (
	// word runes, whitespace, common ASCII punctuation and the full-width marks and
	// unit symbols the scorer looks for
	disallowedRunes = regexp.MustCompile("[^\\p{L}\\p{N}\\p{M}_\\s.,!?:;\\-()\\[\\]{}/@#%&*+=|\\\\~`'\"。！？、¥㎡]")
	dotRun          = regexp.MustCompile(`\.{2,}`)
	bangRun         = regexp.MustCompile(`!{2,}`)
	questionRun     = regexp.MustCompile(`\?{2,}`)
)

// Clean collapses whitespace, strips runes outside the allow-list and folds
// repeated terminal punctuation.
func Clean(text string) string {
	text = collapseSpace(text)
	text = disallowedRunes.ReplaceAllString(text, " ")
	text = collapseSpace(text)

	text = dotRun.ReplaceAllString(text, "...")
	text = bangRun.ReplaceAllString(text, "!")
	text = questionRun.ReplaceAllString(text, "?")

	return strings.TrimSpace(text)
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
