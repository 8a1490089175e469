package compression

import "strings"

const ellipsis = "..."

// Truncate fits text into maxLength runes by keeping whole leading sentences and
// appending "...". Sentences after the first one that does not fit are dropped.
func Truncate(text string, maxLength int) string {
	if runeLen(text) <= maxLength {
		return text
	}

	budget := maxLength - runeLen(ellipsis)

	var result strings.Builder
	used := 0
	for sentence := range Sentences(text) {
		if sentence == "" {
			continue
		}
		n := runeLen(sentence) + runeLen(sentenceJoiner)
		if used+n > budget {
			break
		}
		result.WriteString(sentence)
		result.WriteString(sentenceJoiner)
		used += n
	}

	return strings.TrimRight(result.String(), " \t\n") + ellipsis
}
