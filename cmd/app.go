package main

import (
	"context"
	"fmt"
	"time"

	"propsight/analysis"
	"propsight/compression"
	"propsight/config"
	"propsight/pkg/boltdb"
	"propsight/pkg/logger"
	"propsight/scraper"
	"propsight/search"
	"propsight/service"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *bolt.DB
	compressor *compression.Compressor
	sessions   *boltdb.SessionStore
	analysis   *service.AnalysisService
	generation *service.GenerationService
	insights   *service.InsightService
}

func loadBase() (*config.Config, *zap.Logger, *compression.Compressor, error) {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	vocabulary, err := config.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, nil, nil, err
	}

	// =========
	// Logging
	// =========
	log := logger.New(logger.Config{FilePath: cfg.LogFile, Debug: cfg.LogDebug})

	// =========
	// Compression
	// =========
	compressor := compression.NewCompressor(vocabulary, log.Named("compression"))

	return cfg, log, compressor, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, compressor, err := loadBase()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAnalysis(); err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: log, compressor: compressor}

	// =========
	// BoltDB
	// =========
	a.db, err = boltdb.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.sessions, err = boltdb.NewSessionStore(a.db, log.Named("sessions"))
	if err != nil {
		a.Close()
		return nil, err
	}

	// =========
	// Fetcher
	// =========
	fetcher, err := newFetcher(cfg, a.db, log.Named("fetcher"))
	if err != nil {
		a.Close()
		return nil, err
	}

	// =========
	// Scraper
	// =========
	mode, err := scraper.ParseExtractMode(cfg.ExtractMode)
	if err != nil {
		a.Close()
		return nil, err
	}
	scrapeSvc := scraper.NewService(
		fetcher,
		scraper.NewExtractor(mode, log.Named("extractor")),
		compressor,
		scraper.ServiceConfig{
			MaxTextLength: cfg.MaxTextLength,
			DefaultRatio:  cfg.CompressionRatio,
		},
		log.Named("scraper"),
	)
	log.Info("scraper configured",
		zap.String("extract_mode", string(mode)),
		zap.Bool("browser_fetch", cfg.BrowserFetch),
		zap.Int("fetch_cache_size", cfg.FetchCacheSize),
		zap.Int("max_text_length", cfg.MaxTextLength),
		zap.Float64("compression_ratio", cfg.CompressionRatio))

	// =========
	// Search
	// =========
	var engine search.SearchEngine
	if cfg.SerpAPIKey != "" {
		engine = search.NewSerpApiSearchEngine(cfg.SerpAPIKey, cfg.RequestTimeout, log.Named("search"))
	}

	// =========
	// LLM
	// =========
	model, err := analysis.NewGoogleAIModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		a.Close()
		return nil, err
	}
	analyzer := analysis.NewAnalyzer(model, analysis.DefaultConfig(), log.Named("analysis"))

	// =========
	// Services
	// =========
	a.analysis = service.NewAnalysisService(scrapeSvc, engine, analyzer, a.sessions, log.Named("service"))
	a.generation = service.NewGenerationService(analysis.NewGenerator(model, log.Named("generator")))
	a.insights = service.NewInsightService(engine, analyzer, log.Named("insights"))
	return a, nil
}

func newFetcher(cfg *config.Config, db *bolt.DB, log *zap.Logger) (scraper.Fetcher, error) {
	var fetcher scraper.Fetcher
	if cfg.BrowserFetch {
		fetcher = scraper.NewBrowserFetcher(log, cfg.ProxyURL, cfg.RequestTimeout)
	} else {
		collyFetcher, err := scraper.NewCollyFetcher(scraper.CollyConfig{
			Timeout:  cfg.RequestTimeout,
			ProxyURL: cfg.ProxyURL,
			Storage:  boltdb.NewCollyStorage(db),
		}, log)
		if err != nil {
			return nil, err
		}
		fetcher = collyFetcher
	}

	if cfg.FetchCacheSize <= 0 {
		return fetcher, nil
	}
	return scraper.NewCachedFetcher(fetcher, cfg.FetchCacheSize, log)
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close BoltDB", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func requestTimeout(cfg *config.Config) time.Duration {
	// scraping, search and the model call each get the configured timeout
	return 3 * cfg.RequestTimeout
}
