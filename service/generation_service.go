package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"propsight/analysis"
)

var ErrInvalidImage = errors.New("invalid image data")

const defaultImagePrompt = "この画像について説明してください"

type Generator interface {
	Generate(ctx context.Context, prompt, system string, cfg analysis.GenerationConfig) (*analysis.Generation, error)
	Chat(ctx context.Context, messages []analysis.Message, system string, cfg analysis.GenerationConfig) (*analysis.Generation, error)
	DescribeImage(ctx context.Context, image []byte, mimeType, prompt string, cfg analysis.GenerationConfig) (*analysis.Generation, error)
}

type GenerateRequest struct {
	Message           string                    `json:"message" validate:"required,max=32000"`
	Config            analysis.GenerationConfig `json:"config"`
	SystemInstruction string                    `json:"system_instruction,omitempty"`
}

type ChatRequest struct {
	Messages          []analysis.Message        `json:"messages" validate:"required,min=1,dive"`
	Config            analysis.GenerationConfig `json:"config"`
	SystemInstruction string                    `json:"system_instruction,omitempty"`
}

type ImageRequest struct {
	ImageData string                    `json:"image_data" validate:"required"`
	Prompt    string                    `json:"prompt" validate:"max=1000"`
	MimeType  string                    `json:"mime_type" validate:"omitempty,oneof=image/jpeg image/png image/gif image/webp"`
	Config    analysis.GenerationConfig `json:"config"`
}

type GenerateResponse struct {
	Success      bool           `json:"success"`
	Content      string         `json:"content"`
	Usage        analysis.Usage `json:"usage"`
	FinishReason string         `json:"finish_reason,omitempty"`
}

// GenerationService exposes the model for free-form prompts, chats and images.
type GenerationService struct {
	generator Generator
}

func NewGenerationService(generator Generator) *GenerationService {
	return &GenerationService{generator: generator}
}

func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	gen, err := s.generator.Generate(ctx, req.Message, req.SystemInstruction, req.Config)
	return respond("generate", gen, err)
}

func (s *GenerationService) Chat(ctx context.Context, req ChatRequest) (*GenerateResponse, error) {
	gen, err := s.generator.Chat(ctx, req.Messages, req.SystemInstruction, req.Config)
	return respond("chat", gen, err)
}

func (s *GenerationService) AnalyzeImage(ctx context.Context, req ImageRequest) (*GenerateResponse, error) {
	image, mimeType, err := decodeImage(req.ImageData, req.MimeType)
	if err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = defaultImagePrompt
	}

	gen, err := s.generator.DescribeImage(ctx, image, mimeType, prompt, req.Config)
	return respond("image", gen, err)
}

// decodeImage accepts raw base64 or a data URI. The data URI media type wins
// over the declared one.
func decodeImage(data, mimeType string) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, "", fmt.Errorf("%w: unsupported data URI", ErrInvalidImage)
		}
		mimeType = strings.TrimSuffix(header, ";base64")
		data = payload
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%w: %s is not an image type", ErrInvalidImage, mimeType)
	}

	image, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if len(image) == 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	return image, mimeType, nil
}

func respond(kind string, gen *analysis.Generation, err error) (*GenerateResponse, error) {
	if err != nil {
		GenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, err
	}
	GenerationTotal.WithLabelValues(kind, "ok").Inc()
	return &GenerateResponse{
		Success:      true,
		Content:      gen.Content,
		Usage:        gen.Usage,
		FinishReason: gen.FinishReason,
	}, nil
}
