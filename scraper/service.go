package scraper

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"propsight/compression"

	"go.uber.org/zap"
)

const (
	DefaultMaxTextLength = 50000
	DefaultRatio         = 0.6
)

type ScrapeOptions struct {
	Compress bool
	// Ratio scales the text budget; values outside (0,1] use the service default.
	Ratio float64
}

type ScrapeResult struct {
	URL      string
	Title    string
	Text     string
	Format   string
	RawRunes int
	Stats    *compression.Stats
	Duration time.Duration
}

// ContentExtractor turns a fetched page into readable content.
type ContentExtractor interface {
	Extract(body []byte, pageURL string) (*Content, error)
}

type ServiceConfig struct {
	MaxTextLength int
	// DefaultRatio applies when a request carries no valid ratio.
	DefaultRatio float64
}

// Service fetches a page, extracts its readable text and fits it into the
// analysis budget.
type Service struct {
	fetcher    Fetcher
	extractor  ContentExtractor
	compressor *compression.Compressor
	cfg        ServiceConfig
	logger     *zap.Logger
}

func NewService(fetcher Fetcher, extractor ContentExtractor, compressor *compression.Compressor, cfg ServiceConfig, logger *zap.Logger) *Service {
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = DefaultMaxTextLength
	}
	if cfg.DefaultRatio <= 0 || cfg.DefaultRatio > 1 {
		cfg.DefaultRatio = DefaultRatio
	}
	return &Service{
		fetcher:    fetcher,
		extractor:  extractor,
		compressor: compressor,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *Service) Scrape(ctx context.Context, pageURL string, opts ScrapeOptions) (*ScrapeResult, error) {
	if err := validateScrapeURL(pageURL); err != nil {
		return nil, err
	}

	start := time.Now()
	s.logger.Info("scrape started", zap.String("url", pageURL))

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape %s: %w", pageURL, err)
	}

	content, err := s.extractor.Extract(body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", pageURL, err)
	}

	page, format := content.Body()
	text := CleanScrapedText(page)
	result := &ScrapeResult{
		URL:      pageURL,
		Title:    content.Title,
		Format:   format,
		RawRunes: utf8.RuneCountInString(text),
	}

	if opts.Compress {
		ratio := opts.Ratio
		if ratio <= 0 || ratio > 1 {
			ratio = s.cfg.DefaultRatio
		}
		target := int(float64(s.cfg.MaxTextLength) * ratio)
		compressed, stats := s.compressor.CompressWithStats(text, target, ratio)
		text = compressed
		result.Stats = &stats
	} else {
		text = cut(text, s.cfg.MaxTextLength)
	}

	result.Text = text
	result.Duration = time.Since(start)

	s.logger.Info("scrape finished",
		zap.String("url", pageURL),
		zap.String("format", format),
		zap.Int("raw_length", result.RawRunes),
		zap.Int("final_length", utf8.RuneCountInString(text)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func cut(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	return string([]rune(text)[:maxLength]) + "..."
}
