package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"propsight/analysis"
	"propsight/repository"
	"propsight/service"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const Version = "1.0.0"

type Analyzer interface {
	Analyze(ctx context.Context, req service.Request) (*service.Response, error)
}

type Compressor interface {
	Compress(req service.CompressRequest) *service.CompressResponse
}

type Generator interface {
	Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResponse, error)
	Chat(ctx context.Context, req service.ChatRequest) (*service.GenerateResponse, error)
	AnalyzeImage(ctx context.Context, req service.ImageRequest) (*service.GenerateResponse, error)
}

type Researcher interface {
	Research(ctx context.Context, topic analysis.Topic, req service.InsightRequest) (*service.InsightResponse, error)
}

// Services are the collaborators behind the routes.
type Services struct {
	Analyzer   Analyzer
	Compressor Compressor
	Generator  Generator
	Researcher Researcher
	Sessions   repository.SessionRepo
}

type Config struct {
	Port              int
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// TrustedProxies are addresses or CIDR ranges allowed to set X-Forwarded-For.
	TrustedProxies []string
	// Model is the configured Gemini model reported by /api/models.
	Model string
}

// Server represents the API server
type Server struct {
	analyzer   Analyzer
	compressor Compressor
	generator  Generator
	researcher Researcher
	repo       repository.SessionRepo
	model      string
	limiter    *clientLimiter
	proxies    trustedProxies
	validate   *validator.Validate
	logger     *zap.Logger
	port       int
}

func NewServer(cfg Config, svc Services, logger *zap.Logger) (*Server, error) {
	proxies, err := parseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("invalid trusted proxy: %w", err)
	}
	return &Server{
		analyzer:   svc.Analyzer,
		compressor: svc.Compressor,
		generator:  svc.Generator,
		researcher: svc.Researcher,
		repo:       svc.Sessions,
		model:      cfg.Model,
		limiter:    newClientLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		proxies:    proxies,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
		port:       cfg.Port,
	}, nil
}

// Handler returns the routed handler with logging and rate limiting applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/compress", s.handleCompress)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/storage/stats", s.handleStorageStats)

	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/analyze-image", s.handleAnalyzeImage)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("POST /api/insights/{topic}", s.handleInsight)

	// Health check endpoint
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.logRequests(s.rateLimit(mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", zap.Int("port", s.port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
