package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/storage"
	"go.uber.org/zap"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var ErrEmptyBody = errors.New("empty response body")

// Fetcher downloads the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

type CollyConfig struct {
	UserAgent string
	Timeout   time.Duration
	ProxyURL  string
	// Storage overrides colly's in-memory visit and cookie store.
	Storage storage.Storage
}

func DefaultCollyConfig() CollyConfig {
	return CollyConfig{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

// CollyFetcher fetches single pages with a colly collector. Each call works on
// a clone so callbacks never leak between requests.
type CollyFetcher struct {
	collector *colly.Collector
	logger    *zap.Logger
}

func NewCollyFetcher(cfg CollyConfig, logger *zap.Logger) (*CollyFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	if cfg.ProxyURL != "" {
		if err := c.SetProxy(cfg.ProxyURL); err != nil {
			return nil, fmt.Errorf("failed to set proxy: %w", err)
		}
	}

	if cfg.Storage != nil {
		if err := c.SetStorage(cfg.Storage); err != nil {
			return nil, fmt.Errorf("failed to set storage: %w", err)
		}
	}

	return &CollyFetcher{collector: c, logger: logger}, nil
}

func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.collector.Clone()

	var (
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
		r.Headers.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
	})
	c.OnResponse(func(r *colly.Response) {
		f.logger.Info("page fetched",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("bytes", len(r.Body)))
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, fetchErr)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, ErrEmptyBody)
	}

	return body, nil
}
