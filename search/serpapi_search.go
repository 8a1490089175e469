package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const serpApiEndpoint = "https://serpapi.com/search"

type SerpApiSearchEngine struct {
	client   *http.Client
	apiKey   string
	endpoint string
	logger   *zap.Logger
}

type serpApiResponse struct {
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	Error string `json:"error"`
}

func NewSerpApiSearchEngine(apiKey string, timeout time.Duration, logger *zap.Logger) *SerpApiSearchEngine {
	return NewSerpApiSearchEngineWithEndpoint(apiKey, serpApiEndpoint, timeout, logger)
}

// NewSerpApiSearchEngineWithEndpoint points the engine at a different host, mostly for tests.
func NewSerpApiSearchEngineWithEndpoint(apiKey, endpoint string, timeout time.Duration, logger *zap.Logger) *SerpApiSearchEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerpApiSearchEngine{
		client:   &http.Client{Timeout: timeout},
		apiKey:   apiKey,
		endpoint: endpoint,
		logger:   logger,
	}
}

func (s *SerpApiSearchEngine) Search(ctx context.Context, req *SearchRequest) ([]SearchResult, error) {
	var allResults []SearchResult

	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	for i := range maxPages {
		results, err := s.searchPage(ctx, req, i)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			break
		}
		allResults = append(allResults, results...)
	}

	s.logger.Debug("search finished",
		zap.String("query", req.Query),
		zap.Int("results", len(allResults)))

	return allResults, nil
}

func (s *SerpApiSearchEngine) searchPage(ctx context.Context, req *SearchRequest, page int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", req.Query)
	params.Set("api_key", s.apiKey)
	params.Set("start", strconv.Itoa(page*10))
	params.Set("num", "10")
	for k, v := range req.Options {
		params.Set(k, v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp serpApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if searchResp.Error != "" {
		return nil, fmt.Errorf("API error: %s", searchResp.Error)
	}

	results := make([]SearchResult, 0, len(searchResp.OrganicResults))
	for _, item := range searchResp.OrganicResults {
		results = append(results, SearchResult{
			URL:         item.Link,
			Title:       item.Title,
			Description: item.Snippet,
			Metadata: map[string]string{
				"page":     strconv.Itoa(page + 1),
				"position": strconv.Itoa(item.Position),
				"query":    req.Query,
			},
		})
	}
	return results, nil
}
