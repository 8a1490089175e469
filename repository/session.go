package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

const EnvelopeVersion = "1.0"

// SessionRepo stores the artifacts of one analysis session under its UUID.
type SessionRepo interface {
	SaveRequestInfo(ctx context.Context, id string, requestData any) error
	SaveExtractedText(ctx context.Context, id string, text string) error
	SaveAnalysisResult(ctx context.Context, id string, analysisData any) error
	GetRequestInfo(ctx context.Context, id string) (*RequestInfo, error)
	GetExtractedText(ctx context.Context, id string) (string, error)
	GetAnalysisResult(ctx context.Context, id string) (*AnalysisEnvelope, error)
	ListSessions(ctx context.Context, limit int) ([]SessionSummary, error)
	DeleteSession(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StorageStats, error)
}

type RequestInfo struct {
	UUID        string          `json:"uuid"`
	Timestamp   time.Time       `json:"timestamp"`
	RequestData json.RawMessage `json:"request_data"`
}

type AnalysisEnvelope struct {
	UUID         string          `json:"uuid"`
	Timestamp    time.Time       `json:"timestamp"`
	Version      string          `json:"version"`
	AnalysisData json.RawMessage `json:"analysis_data"`
}

type SessionSummary struct {
	UUID      string    `json:"uuid"`
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	IsURL     bool      `json:"is_url"`
}

type StorageStats struct {
	TotalFiles     int     `json:"total_files"`
	TotalSessions  int     `json:"total_sessions"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	TotalSizeMB    float64 `json:"total_size_mb"`
	Path           string  `json:"path"`
}
