package search

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// SimpleKeywordExtractor implements KeywordExtractor using stop word removal and
// snowball stemming. Tokens outside the Latin script are kept verbatim.
type SimpleKeywordExtractor struct {
	stopWords map[string]bool
}

func NewSimpleKeywordExtractor() *SimpleKeywordExtractor {
	stopWords := map[string]bool{
		"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
		"be": true, "by": true, "for": true, "from": true, "has": true, "in": true,
		"is": true, "it": true, "its": true, "of": true, "on": true, "that": true,
		"the": true, "to": true, "was": true, "with": true, "this": true,
		"near": true, "rent": true, "sale": true,
		"の": true, "に": true, "は": true, "を": true, "が": true, "と": true, "で": true,
	}
	return &SimpleKeywordExtractor{stopWords: stopWords}
}

func (ske *SimpleKeywordExtractor) ExtractKeywords(query string) ([]string, error) {
	query = strings.ToLower(query)
	query = nonWord.ReplaceAllString(query, " ")

	var keywords []string
	seen := make(map[string]bool)

	for _, word := range strings.Fields(query) {
		if ske.stopWords[word] {
			continue
		}
		if isLatin(word) {
			if len(word) < 2 {
				continue
			}
			stemmed, err := snowball.Stem(word, "english", true)
			if err != nil {
				return nil, fmt.Errorf("failed to stem %q: %w", word, err)
			}
			word = stemmed
		}
		if !seen[word] {
			keywords = append(keywords, word)
			seen[word] = true
		}
	}

	return keywords, nil
}

func isLatin(word string) bool {
	for _, r := range word {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
