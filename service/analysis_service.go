package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"propsight/analysis"
	"propsight/compression"
	"propsight/repository"
	"propsight/scraper"
	"propsight/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxSearchCandidates = 3

var ErrScrapeFailed = errors.New("scrape failed")

type Scraper interface {
	Scrape(ctx context.Context, pageURL string, opts scraper.ScrapeOptions) (*scraper.ScrapeResult, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, in analysis.Input) (*analysis.Result, error)
}

type Request struct {
	Query               string  `json:"query" validate:"required,max=2000"`
	EnableCompression   bool    `json:"enable_compression"`
	CompressionRatio    float64 `json:"compression_ratio" validate:"omitempty,gt=0,lte=1"`
	ExtractPropertyInfo bool    `json:"extract_property_info"`
}

type Response struct {
	UUID                string             `json:"uuid"`
	Query               string             `json:"query"`
	IsURL               bool               `json:"is_url"`
	SourceURL           string             `json:"source_url,omitempty"`
	ExtractedTextLength int                `json:"extracted_text_length"`
	Compression         *compression.Stats `json:"compression,omitempty"`
	Analysis            map[string]any     `json:"analysis,omitempty"`
	RawText             string             `json:"raw_text,omitempty"`
	ParseError          string             `json:"parse_error,omitempty"`
	Timestamp           time.Time          `json:"timestamp"`
}

type AnalysisService struct {
	scraper   Scraper
	search    search.SearchEngine
	extractor search.KeywordExtractor
	analyzer  Analyzer
	repo      repository.SessionRepo
	logger    *zap.Logger
}

// NewAnalysisService wires the pipeline. engine may be nil, in which case
// property names are analysed without any page context.
func NewAnalysisService(s Scraper, engine search.SearchEngine, analyzer Analyzer, repo repository.SessionRepo, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		scraper:   s,
		search:    engine,
		extractor: search.NewSimpleKeywordExtractor(),
		analyzer:  analyzer,
		repo:      repo,
		logger:    logger,
	}
}

func (s *AnalysisService) Analyze(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, analysis.ErrEmptyInput
	}

	id := uuid.NewString()
	resp := &Response{
		UUID:  id,
		Query: query,
		IsURL: scraper.IsURL(query),
	}

	logger := s.logger.With(zap.String("uuid", id))
	logger.Info("analysis started", zap.String("query", query), zap.Bool("is_url", resp.IsURL))

	if err := s.repo.SaveRequestInfo(ctx, id, req); err != nil {
		logger.Warn("failed to save request info", zap.Error(err))
	}

	opts := scraper.ScrapeOptions{Compress: req.EnableCompression, Ratio: req.CompressionRatio}

	var text string
	if resp.IsURL {
		result, err := s.scrape(ctx, query, opts)
		if err != nil {
			AnalysisTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: %w", ErrScrapeFailed, err)
		}
		text = result.Text
		resp.SourceURL = query
		resp.Compression = result.Stats
	} else {
		text, resp.SourceURL, resp.Compression = s.lookup(ctx, logger, query, opts)
	}

	if req.ExtractPropertyInfo && text != "" {
		text = scraper.ExtractPropertyInfo(text)
	}
	resp.ExtractedTextLength = utf8.RuneCountInString(text)

	result, err := s.analyzer.Analyze(ctx, analysis.Input{
		Query:     query,
		SourceURL: resp.SourceURL,
		Text:      text,
	})
	if err != nil {
		AnalysisTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to analyze %q: %w", query, err)
	}

	resp.Analysis = result.Data
	resp.RawText = result.RawText
	resp.ParseError = result.ParseError
	resp.Timestamp = time.Now().UTC()

	if result.Parsed() {
		AnalysisTotal.WithLabelValues("parsed").Inc()
	} else {
		AnalysisTotal.WithLabelValues("unparsed").Inc()
	}

	if err := s.repo.SaveExtractedText(ctx, id, text); err != nil {
		logger.Warn("failed to save extracted text", zap.Error(err))
	}
	if err := s.repo.SaveAnalysisResult(ctx, id, resp); err != nil {
		logger.Warn("failed to save analysis result", zap.Error(err))
	}

	logger.Info("analysis finished",
		zap.Int("text_length", resp.ExtractedTextLength),
		zap.Bool("parsed", result.Parsed()))

	return resp, nil
}

func (s *AnalysisService) scrape(ctx context.Context, pageURL string, opts scraper.ScrapeOptions) (*scraper.ScrapeResult, error) {
	result, err := s.scraper.Scrape(ctx, pageURL, opts)
	if err != nil {
		return nil, err
	}
	ScrapeDuration.Observe(result.Duration.Seconds())
	if result.Stats != nil {
		observeCompression(*result.Stats)
	}
	return result, nil
}

// lookup finds a listing page for a property name. The best ranked results are
// scraped in turn; when none can be scraped the search snippets are used.
func (s *AnalysisService) lookup(ctx context.Context, logger *zap.Logger, name string, opts scraper.ScrapeOptions) (string, string, *compression.Stats) {
	if s.search == nil {
		return "", "", nil
	}

	results, err := s.search.Search(ctx, &search.SearchRequest{
		Query:   name,
		Options: map[string]string{"hl": "ja", "gl": "jp"},
	})
	if err != nil {
		logger.Warn("search failed", zap.String("query", name), zap.Error(err))
		return "", "", nil
	}

	ranked, err := search.RankResults(s.extractor, name, results)
	if err != nil {
		ranked = results
	}

	for i, r := range ranked {
		if i == maxSearchCandidates {
			break
		}
		result, err := s.scrape(ctx, r.URL, opts)
		if err != nil {
			logger.Warn("search result could not be scraped", zap.String("url", r.URL), zap.Error(err))
			continue
		}
		return result.Text, r.URL, result.Stats
	}

	var snippets []string
	for _, r := range ranked {
		if r.Description != "" {
			snippets = append(snippets, r.Title+": "+r.Description)
		}
	}
	return strings.Join(snippets, "\n"), "", nil
}

func observeCompression(stats compression.Stats) {
	result := "ok"
	if stats.Fallback {
		result = "fallback"
	}
	CompressionRuns.WithLabelValues(result).Inc()
	CompressionReduction.Observe(stats.ReductionPercent)
}
