package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"propsight/analysis"
	"propsight/search"

	"go.uber.org/zap"
)

const maxInsightSources = 5

type TopicAnalyzer interface {
	AnalyzeTopic(ctx context.Context, topic analysis.Topic, address, reference string) (*analysis.TopicResult, error)
}

type InsightRequest struct {
	Address string `json:"address" validate:"required,max=500"`
}

type InsightSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type InsightResponse struct {
	Topic      analysis.Topic         `json:"topic"`
	Address    string                 `json:"address"`
	Query      string                 `json:"query"`
	Sources    []InsightSource        `json:"sources"`
	Analysis   map[string]any         `json:"analysis,omitempty"`
	Signals    *analysis.FloodSignals `json:"signals,omitempty"`
	RawText    string                 `json:"raw_text,omitempty"`
	ParseError string                 `json:"parse_error,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// InsightService answers area-level questions about an address, such as flood
// risk or municipal finances, from web search snippets and the model.
type InsightService struct {
	search   search.SearchEngine
	analyzer TopicAnalyzer
	logger   *zap.Logger
}

// NewInsightService wires the topic analyzer. engine may be nil, in which case
// the model answers from general knowledge only.
func NewInsightService(engine search.SearchEngine, analyzer TopicAnalyzer, logger *zap.Logger) *InsightService {
	return &InsightService{search: engine, analyzer: analyzer, logger: logger}
}

func (s *InsightService) Research(ctx context.Context, topic analysis.Topic, req InsightRequest) (*InsightResponse, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, analysis.ErrEmptyInput
	}

	resp := &InsightResponse{
		Topic:   topic,
		Address: address,
		Query:   topic.SearchQuery(address),
		Sources: []InsightSource{},
	}

	reference := s.gather(ctx, resp)

	result, err := s.analyzer.AnalyzeTopic(ctx, topic, address, reference)
	if err != nil {
		GenerationTotal.WithLabelValues(string(topic), "error").Inc()
		return nil, fmt.Errorf("failed to research %s for %q: %w", topic, address, err)
	}
	GenerationTotal.WithLabelValues(string(topic), "ok").Inc()

	resp.Analysis = result.Data
	resp.Signals = result.Signals
	resp.RawText = result.RawText
	resp.ParseError = result.ParseError
	resp.Timestamp = time.Now().UTC()
	return resp, nil
}

// gather collects search snippets as reference material and records their sources.
func (s *InsightService) gather(ctx context.Context, resp *InsightResponse) string {
	if s.search == nil {
		return ""
	}

	results, err := s.search.Search(ctx, &search.SearchRequest{
		Query:   resp.Query,
		Options: map[string]string{"hl": "ja", "gl": "jp"},
	})
	if err != nil {
		s.logger.Warn("insight search failed", zap.String("query", resp.Query), zap.Error(err))
		return ""
	}

	var lines []string
	for _, r := range results {
		if len(resp.Sources) == maxInsightSources {
			break
		}
		if r.Description == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", r.Title, r.Description, r.URL))
		resp.Sources = append(resp.Sources, InsightSource{Title: r.Title, URL: r.URL})
	}
	return strings.Join(lines, "\n")
}
