package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

var ErrEmptyInput = errors.New("analysis input has neither query nor text")

const promptTemplate = `You are a real-estate analyst. Analyse the property described below and answer with a single JSON object only, no prose.

Use these keys (null when unknown):
property_name, address, price, rent, layout, area, building_age, nearest_station, walking_minutes, features (array), summary, concerns (array).

Query: {{.query}}
{{.source}}
Listing text:
{{.text}}`

type Config struct {
	Temperature float64
	MaxTokens   int
}

func DefaultConfig() Config {
	return Config{
		Temperature: 0.2,
		MaxTokens:   2048,
	}
}

type Input struct {
	Query     string
	SourceURL string
	Text      string
}

// Result is the model's answer. Data holds the parsed JSON object; when the
// reply could not be parsed, RawText and ParseError are set instead.
type Result struct {
	Data       map[string]any `json:"data,omitempty"`
	RawText    string         `json:"raw_text,omitempty"`
	ParseError string         `json:"parse_error,omitempty"`
	Duration   time.Duration  `json:"-"`
}

func (r *Result) Parsed() bool {
	return r.ParseError == ""
}

type Analyzer struct {
	model    llms.Model
	template prompts.PromptTemplate
	topics   map[Topic]prompts.PromptTemplate
	cfg      Config
	logger   *zap.Logger
}

func NewAnalyzer(model llms.Model, cfg Config, logger *zap.Logger) *Analyzer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Analyzer{
		model:    model,
		template: prompts.NewPromptTemplate(promptTemplate, []string{"query", "source", "text"}),
		topics:   newTopicTemplates(),
		cfg:      cfg,
		logger:   logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Query) == "" && strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyInput
	}

	source := ""
	if in.SourceURL != "" {
		source = "Source: " + in.SourceURL + "\n"
	}

	prompt, err := a.template.Format(map[string]any{
		"query":  in.Query,
		"source": source,
		"text":   in.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	start := time.Now()
	reply, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt,
		llms.WithTemperature(a.cfg.Temperature),
		llms.WithMaxTokens(a.cfg.MaxTokens),
	)
	if err != nil {
		a.logger.Error("model call failed", zap.String("query", in.Query), zap.Error(err))
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	result := ParseReply(reply)
	result.Duration = time.Since(start)

	a.logger.Info("analysis finished",
		zap.String("query", in.Query),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("reply_length", len(reply)),
		zap.Bool("parsed", result.Parsed()),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// ParseReply extracts the JSON object from a model reply, tolerating markdown
// code fences and surrounding prose.
func ParseReply(reply string) *Result {
	body := stripCodeFence(strings.TrimSpace(reply))

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return &Result{RawText: reply, ParseError: "no JSON object in model reply"}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(body[start:end+1]), &data); err != nil {
		return &Result{RawText: reply, ParseError: err.Error()}
	}
	return &Result{Data: data}
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
