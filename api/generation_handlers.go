package api

import (
	"errors"
	"net/http"

	"propsight/analysis"
	"propsight/service"

	"go.uber.org/zap"
)

type ModelListResponse struct {
	Models []analysis.ModelInfo `json:"models"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.generator.Generate(r.Context(), req)
	s.writeGeneration(w, "generate", resp, err)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.generator.Chat(r.Context(), req)
	s.writeGeneration(w, "chat", resp, err)
}

func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req service.ImageRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.generator.AnalyzeImage(r.Context(), req)
	s.writeGeneration(w, "image", resp, err)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModelListResponse{Models: analysis.Models(s.model)})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	topic, err := analysis.ParseTopic(r.PathValue("topic"))
	if err != nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_TOPIC", err.Error())
		return
	}

	var req service.InsightRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.researcher.Research(r.Context(), topic, req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, analysis.ErrEmptyInput):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		s.logger.Error("insight failed", zap.String("topic", string(topic)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "GENERATION_FAILED", "insight generation failed")
	}
}

func (s *Server) writeGeneration(w http.ResponseWriter, kind string, resp *service.GenerateResponse, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, service.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "INVALID_IMAGE", err.Error())
	case errors.Is(err, analysis.ErrNoMessages):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		s.logger.Error("generation failed", zap.String("kind", kind), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "GENERATION_FAILED", "content generation failed")
	}
}
