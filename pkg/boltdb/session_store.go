package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"propsight/repository"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var sessionsBucket = []byte("sessions")

const (
	requestInfoKey    = "request_info.json"
	extractedTextKey  = "extracted_text.txt"
	analysisResultKey = "analysis_result.json"

	defaultListLimit = 100
)

// SessionStore keeps each session in its own nested bucket, one key per artifact.
type SessionStore struct {
	db     *bolt.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewSessionStore(db *bolt.DB, logger *zap.Logger) (*SessionStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &SessionStore{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *SessionStore) SaveRequestInfo(ctx context.Context, id string, requestData any) error {
	data, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("failed to encode request data: %w", err)
	}
	info := repository.RequestInfo{
		UUID:        id,
		Timestamp:   s.now(),
		RequestData: data,
	}
	return s.putJSON(id, requestInfoKey, info)
}

// SaveExtractedText is a no-op for empty text.
func (s *SessionStore) SaveExtractedText(ctx context.Context, id string, text string) error {
	if text == "" {
		return nil
	}
	return s.put(id, extractedTextKey, []byte(text))
}

func (s *SessionStore) SaveAnalysisResult(ctx context.Context, id string, analysisData any) error {
	data, err := json.Marshal(analysisData)
	if err != nil {
		return fmt.Errorf("failed to encode analysis data: %w", err)
	}
	envelope := repository.AnalysisEnvelope{
		UUID:         id,
		Timestamp:    s.now(),
		Version:      repository.EnvelopeVersion,
		AnalysisData: data,
	}
	return s.putJSON(id, analysisResultKey, envelope)
}

func (s *SessionStore) GetRequestInfo(ctx context.Context, id string) (*repository.RequestInfo, error) {
	var info repository.RequestInfo
	if err := s.getJSON(id, requestInfoKey, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *SessionStore) GetExtractedText(ctx context.Context, id string) (string, error) {
	data, err := s.get(id, extractedTextKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *SessionStore) GetAnalysisResult(ctx context.Context, id string) (*repository.AnalysisEnvelope, error) {
	var envelope repository.AnalysisEnvelope
	if err := s.getJSON(id, analysisResultKey, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// ListSessions returns sessions that have an analysis result, newest first.
func (s *SessionStore) ListSessions(ctx context.Context, limit int) ([]repository.SessionSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var sessions []repository.SessionSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(sessionsBucket)
		return root.ForEachBucket(func(k []byte) error {
			raw := root.Bucket(k).Get([]byte(analysisResultKey))
			if raw == nil {
				return nil
			}

			var envelope repository.AnalysisEnvelope
			if err := json.Unmarshal(raw, &envelope); err != nil {
				s.logger.Warn("skipping unreadable session", zap.String("uuid", string(k)), zap.Error(err))
				return nil
			}

			var meta struct {
				Query string `json:"query"`
				IsURL bool   `json:"is_url"`
			}
			_ = json.Unmarshal(envelope.AnalysisData, &meta)

			sessions = append(sessions, repository.SessionSummary{
				UUID:      string(k),
				Timestamp: envelope.Timestamp,
				Query:     meta.Query,
				IsURL:     meta.IsURL,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	var files int
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(sessionsBucket)
		b := root.Bucket([]byte(id))
		if b == nil {
			return repository.ErrSessionNotFound
		}
		files = b.Stats().KeyN
		return root.DeleteBucket([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	s.logger.Info("session deleted", zap.String("uuid", id), zap.Int("files", files))
	return nil
}

func (s *SessionStore) Stats(ctx context.Context) (*repository.StorageStats, error) {
	stats := &repository.StorageStats{Path: s.db.Path()}

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(sessionsBucket)
		return root.ForEachBucket(func(k []byte) error {
			stats.TotalSessions++
			return root.Bucket(k).ForEach(func(_, v []byte) error {
				stats.TotalFiles++
				stats.TotalSizeBytes += int64(len(v))
				return nil
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect storage stats: %w", err)
	}

	stats.TotalSizeMB = math.Round(float64(stats.TotalSizeBytes)/(1024*1024)*100) / 100
	return stats, nil
}

func (s *SessionStore) putJSON(id, key string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.put(id, key, bytes.TrimRight(buf.Bytes(), "\n"))
}

func (s *SessionStore) put(id, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(sessionsBucket).CreateBucketIfNotExists([]byte(id))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		s.logger.Error("failed to save session artifact", zap.String("uuid", id), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save %s/%s: %w", id, key, err)
	}

	s.logger.Info("session artifact saved", zap.String("path", id+"/"+key), zap.Int("bytes", len(value)))
	return nil
}

func (s *SessionStore) get(id, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket).Bucket([]byte(id))
		if b == nil {
			return repository.ErrSessionNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return repository.ErrSessionNotFound
		}
		value = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", id, key, err)
	}
	return value, nil
}

func (s *SessionStore) getJSON(id, key string, v any) error {
	data, err := s.get(id, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", id, key, err)
	}
	return nil
}

var _ repository.SessionRepo = (*SessionStore)(nil)
