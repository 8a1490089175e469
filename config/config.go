package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingEnv = errors.New("required environment variable not set")

type Config struct {
	AppPort  int
	ProxyURL string

	MaxTextLength    int
	CompressionRatio float64
	VocabularyPath   string

	RequestTimeout time.Duration
	ExtractMode    string
	BrowserFetch   bool
	FetchCacheSize int

	DBPath string

	GeminiAPIKey string
	GeminiModel  string
	SerpAPIKey   string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	TrustedProxies    []string

	LogFile  string
	LogDebug bool
}

// Load reads the configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ProxyURL:       os.Getenv("PROXY_URL"),
		VocabularyPath: os.Getenv("VOCABULARY_PATH"),
		ExtractMode:    getEnv("EXTRACT_MODE", "basic"),
		DBPath:         getEnv("DB_PATH", "data/sessions.db"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		SerpAPIKey:     os.Getenv("SERPAPI_KEY"),
		LogFile:        os.Getenv("LOG_FILE"),
		TrustedProxies: getList("TRUSTED_PROXIES"),
	}

	var err error
	if cfg.AppPort, err = getInt("APP_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.MaxTextLength, err = getInt("MAX_TEXT_LENGTH", 50000); err != nil {
		return nil, err
	}
	if cfg.CompressionRatio, err = getFloat("COMPRESSION_RATIO", 0.6); err != nil {
		return nil, err
	}
	if cfg.CompressionRatio <= 0 || cfg.CompressionRatio > 1 {
		return nil, fmt.Errorf("COMPRESSION_RATIO must be in (0,1], got %v", cfg.CompressionRatio)
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.BrowserFetch, err = getBool("BROWSER_FETCH", false); err != nil {
		return nil, err
	}
	if cfg.LogDebug, err = getBool("LOG_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.FetchCacheSize, err = getInt("FETCH_CACHE_SIZE", 128); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = getInt("RATE_LIMIT_REQUESTS", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RequireAnalysis reports whether the settings needed to call the model are present.
func (c *Config) RequireAnalysis() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY: %w", ErrMissingEnv)
	}
	return nil
}

func getEnv(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// getList splits a comma separated variable, dropping empty entries.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
