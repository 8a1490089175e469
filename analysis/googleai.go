package analysis

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// NewGoogleAIModel connects to Gemini through the Google AI API.
func NewGoogleAIModel(ctx context.Context, apiKey, modelName string) (llms.Model, error) {
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return model, nil
}
