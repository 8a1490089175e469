package search

import (
	"sort"
	"strings"
)

// RankResults orders results by how many query keywords appear in their title and
// snippet. Results with equal coverage keep the engine's order.
func RankResults(extractor KeywordExtractor, query string, results []SearchResult) ([]SearchResult, error) {
	keywords, err := extractor.ExtractKeywords(query)
	if err != nil {
		return nil, err
	}
	if len(keywords) == 0 || len(results) == 0 {
		return results, nil
	}

	scores := make([]float64, len(results))
	order := make([]int, len(results))
	for i, r := range results {
		text := strings.ToLower(r.Title + " " + r.Description)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		scores[i] = float64(hits) / float64(len(keywords))
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]SearchResult, len(results))
	for i, idx := range order {
		ranked[i] = results[idx]
	}
	return ranked, nil
}
