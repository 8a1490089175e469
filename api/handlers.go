package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"propsight/analysis"
	"propsight/repository"
	"propsight/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// large enough for a base64 encoded photo
const maxBodyBytes = 16 << 20

type ErrorResponse struct {
	Detail    string    `json:"detail"`
	ErrorCode string    `json:"error_code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionListResponse struct {
	Sessions []repository.SessionSummary `json:"sessions"`
	Count    int                         `json:"count"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req service.Request
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.analyzer.Analyze(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, analysis.ErrEmptyInput):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrScrapeFailed):
		writeError(w, http.StatusBadGateway, "SCRAPE_FAILED", err.Error())
	default:
		s.logger.Error("analysis failed", zap.String("query", req.Query), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "analysis failed")
	}
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	var req service.CompressRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.compressor.Compress(req))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	sessions, err := s.repo.ListSessions(r.Context(), limit)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	if sessions == nil {
		sessions = []repository.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, SessionListResponse{Sessions: sessions, Count: len(sessions)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	envelope, err := s.repo.GetAnalysisResult(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := s.repo.DeleteSession(r.Context(), id); err != nil {
		s.writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStorageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Stats(r.Context())
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().UTC(),
	})
}

// decode reads and validates a JSON body, writing the error response itself.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}

	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" failed "+fe.Tag())
			}
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", strings.Join(fields, "; "))
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	s.logger.Error("storage error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "storage error")
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UUID", "session id must be a UUID")
		return "", false
	}
	return id.String(), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{
		Detail:    detail,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
	})
}
