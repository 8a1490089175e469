package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

var ErrNoMessages = errors.New("no messages to send")

const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// GenerationConfig tunes a free-form model call. Zero fields use DefaultGenerationConfig.
type GenerationConfig struct {
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" validate:"omitempty,min=1,max=8192"`
	Temperature     *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	TopP            *float64 `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	TopK            int      `json:"top_k,omitempty" validate:"omitempty,min=1,max=100"`
	StopSequences   []string `json:"stop_sequences,omitempty"`
}

func DefaultGenerationConfig() GenerationConfig {
	temperature, topP := 0.7, 0.8
	return GenerationConfig{
		MaxOutputTokens: 2048,
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            40,
	}
}

func (c GenerationConfig) withDefaults() GenerationConfig {
	def := DefaultGenerationConfig()
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = def.MaxOutputTokens
	}
	if c.Temperature == nil {
		c.Temperature = def.Temperature
	}
	if c.TopP == nil {
		c.TopP = def.TopP
	}
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	return c
}

func (c GenerationConfig) options() []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithMaxTokens(c.MaxOutputTokens),
		llms.WithTemperature(*c.Temperature),
		llms.WithTopP(*c.TopP),
		llms.WithTopK(c.TopK),
	}
	if len(c.StopSequences) > 0 {
		opts = append(opts, llms.WithStopWords(c.StopSequences))
	}
	return opts
}

type Message struct {
	Role    string `json:"role" validate:"required,oneof=user model system"`
	Content string `json:"content" validate:"required"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_token_count"`
	CandidatesTokens int `json:"candidates_token_count"`
	TotalTokens      int `json:"total_token_count"`
}

type Generation struct {
	Content      string        `json:"content"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Usage        Usage         `json:"usage"`
	Duration     time.Duration `json:"-"`
}

// Generator sends free-form prompts, conversations and images to the model.
type Generator struct {
	model  llms.Model
	logger *zap.Logger
}

func NewGenerator(model llms.Model, logger *zap.Logger) *Generator {
	return &Generator{model: model, logger: logger}
}

func (g *Generator) Generate(ctx context.Context, prompt, system string, cfg GenerationConfig) (*Generation, error) {
	return g.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, system, cfg)
}

// Chat replays the conversation and returns the model's next turn.
func (g *Generator) Chat(ctx context.Context, messages []Message, system string, cfg GenerationConfig) (*Generation, error) {
	var content []llms.MessageContent
	if system = strings.TrimSpace(system); system != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}
	if len(content) == 0 || content[len(content)-1].Role == llms.ChatMessageTypeSystem {
		return nil, ErrNoMessages
	}
	return g.call(ctx, "chat", content, cfg)
}

// DescribeImage asks the model about an inline image.
func (g *Generator) DescribeImage(ctx context.Context, image []byte, mimeType, prompt string, cfg GenerationConfig) (*Generation, error) {
	if len(image) == 0 {
		return nil, ErrNoMessages
	}
	content := []llms.MessageContent{{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.BinaryPart(mimeType, image),
			llms.TextPart(prompt),
		},
	}}
	return g.call(ctx, "image", content, cfg)
}

func (g *Generator) call(ctx context.Context, kind string, content []llms.MessageContent, cfg GenerationConfig) (*Generation, error) {
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, content, cfg.withDefaults().options()...)
	if err != nil {
		g.logger.Error("model call failed", zap.String("kind", kind), zap.Error(err))
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("failed to generate content: model returned no choices")
	}

	choice := resp.Choices[0]
	gen := &Generation{
		Content:      choice.Content,
		FinishReason: choice.StopReason,
		Usage: Usage{
			PromptTokens:     infoInt(choice.GenerationInfo, "input_tokens"),
			CandidatesTokens: infoInt(choice.GenerationInfo, "output_tokens"),
			TotalTokens:      infoInt(choice.GenerationInfo, "total_tokens"),
		},
		Duration: time.Since(start),
	}

	g.logger.Info("generation finished",
		zap.String("kind", kind),
		zap.Int("messages", len(content)),
		zap.Int("reply_length", len(gen.Content)),
		zap.String("finish_reason", gen.FinishReason),
		zap.Duration("duration", gen.Duration))

	return gen, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case RoleModel, "assistant":
		return llms.ChatMessageTypeAI
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}

// infoInt reads a token count from provider metadata, whatever integer type it uses.
func infoInt(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
