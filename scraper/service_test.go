package scraper

import (
	"context"
	"errors"
	"testing"

	"propsight/compression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const japaneseListing = `<html><body><p>駅から徒歩5分の好立地です。</p><p>Rent is 120000 yen.</p></body></html>`

func newTestService(fetcher Fetcher, maxTextLength int) *Service {
	return newTestServiceWithConfig(fetcher, NewExtractor(ModeBasic, zap.NewNop()), ServiceConfig{MaxTextLength: maxTextLength})
}

func newTestServiceWithConfig(fetcher Fetcher, extractor ContentExtractor, cfg ServiceConfig) *Service {
	compressor := compression.NewCompressor(compression.DefaultConfig(), zap.NewNop())
	return NewService(fetcher, extractor, compressor, cfg, zap.NewNop())
}

type stubExtractor struct {
	content *Content
}

func (e *stubExtractor) Extract(body []byte, pageURL string) (*Content, error) {
	return e.content, nil
}

func TestService_ScrapeWithoutCompression(t *testing.T) {
	svc := newTestService(&stubFetcher{body: []byte(japaneseListing)}, 10)

	result, err := svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "駅から徒歩5分の好立...", result.Text)
	assert.Equal(t, 34, result.RawRunes)
	assert.Equal(t, FormatText, result.Format)
	assert.Nil(t, result.Stats)
}

func TestService_ScrapeWithCompression(t *testing.T) {
	svc := newTestService(&stubFetcher{body: []byte(japaneseListing)}, 0)

	result, err := svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{Compress: true, Ratio: 1})
	require.NoError(t, err)

	require.NotNil(t, result.Stats)
	assert.Equal(t, 34, result.Stats.InputRunes)
	assert.Contains(t, result.Text, "駅から徒歩5分の好立地です")
	assert.Contains(t, result.Text, "Rent is 120000 yen")
	assert.False(t, result.Stats.Fallback)
}

func TestService_ScrapeErrors(t *testing.T) {
	svc := newTestService(&stubFetcher{err: errors.New("connection refused")}, 0)

	_, err := svc.Scrape(context.Background(), "not a url", ScrapeOptions{})
	assert.Error(t, err)

	_, err = svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestService_DefaultRatio(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(japaneseListing)}
	svc := newTestServiceWithConfig(fetcher, NewExtractor(ModeBasic, zap.NewNop()), ServiceConfig{MaxTextLength: 100, DefaultRatio: 0.2})

	// budget is 100 * 0.2 runes, only the best sentence fits
	result, err := svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{Compress: true})
	require.NoError(t, err)
	require.NotNil(t, result.Stats)
	assert.True(t, result.Stats.Truncated)
	assert.Equal(t, "駅から徒歩5分の好立地です...", result.Text)

	// an explicit ratio overrides the default
	result, err = svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{Compress: true, Ratio: 1})
	require.NoError(t, err)
	assert.False(t, result.Stats.Truncated)
	assert.Contains(t, result.Text, "Rent is 120000 yen")
}

func TestNewService_InvalidConfigUsesDefaults(t *testing.T) {
	svc := newTestServiceWithConfig(&stubFetcher{}, NewExtractor(ModeBasic, zap.NewNop()), ServiceConfig{DefaultRatio: 1.5})
	assert.Equal(t, DefaultMaxTextLength, svc.cfg.MaxTextLength)
	assert.Equal(t, DefaultRatio, svc.cfg.DefaultRatio)
}

func TestService_PrefersMarkdown(t *testing.T) {
	extractor := &stubExtractor{content: &Content{
		Title:    "Park Tower",
		Text:     "Park Tower 3LDK",
		Markdown: "## Park Tower\n\n- 3LDK\n- 徒歩5分",
	}}
	svc := newTestServiceWithConfig(&stubFetcher{body: []byte("<html></html>")}, extractor, ServiceConfig{})

	result, err := svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{})
	require.NoError(t, err)

	assert.Equal(t, FormatMarkdown, result.Format)
	assert.Equal(t, "## Park Tower - 3LDK - 徒歩5分", result.Text)
}

func TestService_BlankMarkdownFallsBackToText(t *testing.T) {
	extractor := &stubExtractor{content: &Content{Text: "Park Tower 3LDK", Markdown: " \n"}}
	svc := newTestServiceWithConfig(&stubFetcher{body: []byte("<html></html>")}, extractor, ServiceConfig{})

	result, err := svc.Scrape(context.Background(), "https://example.com/a", ScrapeOptions{})
	require.NoError(t, err)

	assert.Equal(t, FormatText, result.Format)
	assert.Equal(t, "Park Tower 3LDK", result.Text)
}
