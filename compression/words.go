package compression

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+`)

// DefaultStopWords are the Japanese particles and English function words ignored
// by WordDeduper.
func DefaultStopWords() []string {
	return []string{
		"の", "に", "は", "を", "が", "で", "と", "から", "まで", "より", "へ",
		"という", "ある", "いる", "する", "なる", "れる", "られる", "です", "ます",
		"である", "により", "について", "として", "において", "による", "ため",
		"こと", "もの", "それ", "これ", "その", "この", "あの", "どの", "など",
		"また", "しかし", "ただし", "なお", "さらに", "そして", "および",
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "up", "about", "into", "through", "during",
		"before", "after", "above", "below", "between", "among", "is", "are",
		"was", "were", "be", "been", "being", "have", "has", "had", "do", "does",
		"did", "will", "would", "could", "should", "may", "might", "must", "can",
	}
}

// WordDeduper removes repeated, stop and noise words from text.
type WordDeduper struct {
	stopWords map[string]struct{}
}

func NewWordDeduper(stopWords []string) *WordDeduper {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &WordDeduper{stopWords: set}
}

// RemoveDuplicateWords keeps each word once. With preserveOrder the first
// occurrence order is kept, otherwise words are ordered by descending frequency
// and emitted lower-cased.
func (d *WordDeduper) RemoveDuplicateWords(text string, preserveOrder bool) string {
	words := wordPattern.FindAllString(text, -1)

	if preserveOrder {
		seen := make(map[string]struct{})
		var unique []string
		for _, w := range words {
			lower := strings.ToLower(w)
			if _, ok := seen[lower]; ok || d.skip(w, lower) {
				continue
			}
			seen[lower] = struct{}{}
			unique = append(unique, w)
		}
		return strings.Join(unique, " ")
	}

	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		lower := strings.ToLower(w)
		if d.skip(w, lower) {
			continue
		}
		if freq[lower] == 0 {
			order = append(order, lower)
		}
		freq[lower]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	return strings.Join(order, " ")
}

func (d *WordDeduper) skip(word, lower string) bool {
	if _, ok := d.stopWords[lower]; ok {
		return true
	}
	return isNoiseWord(word)
}

// isNoiseWord flags digits-only, symbols-only and one or two rune tokens.
func isNoiseWord(word string) bool {
	if runeLen(word) <= 2 {
		return true
	}
	if isAllDigits(word) {
		return true
	}
	return strings.IndexFunc(word, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_'
	}) < 0
}
