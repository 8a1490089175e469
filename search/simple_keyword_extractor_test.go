package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleKeywordExtractor(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected []string
	}{
		{"stems english", "The Park Towers, Tokyo", []string{"park", "tower", "tokyo"}},
		{"keeps japanese tokens", "パークタワー 東京", []string{"パークタワー", "東京"}},
		{"drops duplicates", "tower towers", []string{"tower"}},
		{"drops stop words", "station near the park", []string{"station", "park"}},
		{"empty", "  ", nil},
	}

	extractor := NewSimpleKeywordExtractor()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.ExtractKeywords(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRankResults(t *testing.T) {
	results := []SearchResult{
		{URL: "https://a.example", Title: "Cheap flights"},
		{URL: "https://b.example", Title: "Park Tower Tokyo", Description: "Residence with 3LDK"},
		{URL: "https://c.example", Title: "Tokyo guide"},
	}

	ranked, err := RankResults(NewSimpleKeywordExtractor(), "Park Tower Tokyo", results)
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, "https://b.example", ranked[0].URL)
	assert.Equal(t, "https://c.example", ranked[1].URL)
	assert.Equal(t, "https://a.example", ranked[2].URL)
	assert.Equal(t, "https://a.example", results[0].URL, "input is not reordered")
}

func TestRankResults_SameURL(t *testing.T) {
	results := []SearchResult{
		{URL: "https://a.example/listing", Title: "Cheap flights"},
		{URL: "https://a.example/listing", Title: "Park Tower Tokyo"},
	}

	ranked, err := RankResults(NewSimpleKeywordExtractor(), "Park Tower Tokyo", results)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "Park Tower Tokyo", ranked[0].Title)
	assert.Equal(t, "Cheap flights", ranked[1].Title)
}
