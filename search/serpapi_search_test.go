package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpApiSearchEngine_Search(t *testing.T) {
	var gotQuery, gotKey, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("api_key")
		gotLang = r.URL.Query().Get("hl")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"search_metadata": {"status": "Success"},
			"organic_results": [
				{"position": 1, "title": "Park Tower", "link": "https://example.com/a", "snippet": "3LDK 85㎡"},
				{"position": 2, "title": "Other", "link": "https://example.com/b", "snippet": "unrelated"}
			]
		}`))
	}))
	defer server.Close()

	engine := NewSerpApiSearchEngineWithEndpoint("secret", server.URL, time.Second, nil)
	results, err := engine.Search(context.Background(), &SearchRequest{
		Query:   "Park Tower",
		Options: map[string]string{"hl": "ja"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Park Tower", gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "ja", gotLang)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "3LDK 85㎡", results[0].Description)
	assert.Equal(t, "1", results[0].Metadata["position"])
}

func TestSerpApiSearchEngine_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("start") == "0" {
			_, _ = w.Write([]byte(`{"organic_results": [{"position": 1, "title": "A", "link": "https://a.example"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	}))
	defer server.Close()

	engine := NewSerpApiSearchEngineWithEndpoint("k", server.URL, time.Second, nil)
	results, err := engine.Search(context.Background(), &SearchRequest{Query: "q", MaxPages: 5})
	require.NoError(t, err)

	assert.Len(t, results, 1)
	assert.Equal(t, 2, calls)
}

func TestSerpApiSearchEngine_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		payload string
	}{
		{"bad status", http.StatusUnauthorized, `{"error": "Invalid API key"}`},
		{"api error", http.StatusOK, `{"error": "Google hasn't returned any results"}`},
		{"malformed", http.StatusOK, `{"organic_results": [`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer server.Close()

			engine := NewSerpApiSearchEngineWithEndpoint("k", server.URL, time.Second, nil)
			_, err := engine.Search(context.Background(), &SearchRequest{Query: "q"})
			assert.Error(t, err)
		})
	}
}
