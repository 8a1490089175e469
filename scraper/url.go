package scraper

import (
	"fmt"
	"net/url"
	"slices"
)

var allowedSchemes = []string{"http", "https"}

// IsURL reports whether s parses as an absolute URL with a scheme and a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// validateScrapeURL accepts only absolute http(s) URLs.
func validateScrapeURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid url %q", s)
	}
	if !slices.Contains(allowedSchemes, u.Scheme) {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}
