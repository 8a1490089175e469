package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// BrowserFetcher renders pages in headless Chrome, for listing sites that
// build their content with JavaScript.
type BrowserFetcher struct {
	logger  *zap.Logger
	timeout time.Duration
	options []chromedp.ExecAllocatorOption
}

func NewBrowserFetcher(logger *zap.Logger, proxyURL string, timeout time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	options := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(defaultUserAgent),

		chromedp.Flag("accept-language", "ja,en-US;q=0.9"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-extensions", ""),
	)
	if proxyURL != "" {
		options = append(options, chromedp.ProxyServer(proxyURL))
	}

	return &BrowserFetcher{
		logger:  logger,
		timeout: timeout,
		options: options,
	}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	// ================
	// Browser Context
	// ================
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.options...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, b.timeout)
	defer timeoutCancel()

	// ================
	// Render
	// ================
	var rendered string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		b.logger.Error("failed to render page", zap.String("url", pageURL), zap.Error(err))
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}
	if rendered == "" {
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, ErrEmptyBody)
	}

	b.logger.Info("page rendered", zap.String("url", pageURL), zap.Int("bytes", len(rendered)))
	return []byte(rendered), nil
}
