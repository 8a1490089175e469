package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"propsight/analysis"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	gen      *analysis.Generation
	err      error
	prompt   string
	system   string
	messages []analysis.Message
	image    []byte
	mimeType string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt, system string, cfg analysis.GenerationConfig) (*analysis.Generation, error) {
	f.prompt, f.system = prompt, system
	return f.gen, f.err
}

func (f *fakeGenerator) Chat(ctx context.Context, messages []analysis.Message, system string, cfg analysis.GenerationConfig) (*analysis.Generation, error) {
	f.messages, f.system = messages, system
	return f.gen, f.err
}

func (f *fakeGenerator) DescribeImage(ctx context.Context, image []byte, mimeType, prompt string, cfg analysis.GenerationConfig) (*analysis.Generation, error) {
	f.image, f.mimeType, f.prompt = image, mimeType, prompt
	return f.gen, f.err
}

func TestGenerationService_Generate(t *testing.T) {
	gen := &fakeGenerator{gen: &analysis.Generation{
		Content:      "南向きの3LDKです",
		FinishReason: "STOP",
		Usage:        analysis.Usage{PromptTokens: 12, CandidatesTokens: 8, TotalTokens: 20},
	}}
	svc := NewGenerationService(gen)
	before := testutil.ToFloat64(GenerationTotal.WithLabelValues("generate", "ok"))

	resp, err := svc.Generate(context.Background(), GenerateRequest{Message: "Describe the unit", SystemInstruction: "Answer in Japanese"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "南向きの3LDKです", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, 20, resp.Usage.TotalTokens)
	assert.Equal(t, "Describe the unit", gen.prompt)
	assert.Equal(t, "Answer in Japanese", gen.system)
	assert.Equal(t, before+1, testutil.ToFloat64(GenerationTotal.WithLabelValues("generate", "ok")))
}

func TestGenerationService_ChatError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewGenerationService(gen)
	before := testutil.ToFloat64(GenerationTotal.WithLabelValues("chat", "error"))

	messages := []analysis.Message{{Role: "user", Content: "hi"}, {Role: "model", Content: "hello"}, {Role: "user", Content: "rent?"}}
	_, err := svc.Chat(context.Background(), ChatRequest{Messages: messages})

	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, messages, gen.messages)
	assert.Equal(t, before+1, testutil.ToFloat64(GenerationTotal.WithLabelValues("chat", "error")))
}

func TestGenerationService_AnalyzeImage(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	encoded := base64.StdEncoding.EncodeToString(raw)

	testCases := []struct {
		name     string
		req      ImageRequest
		mimeType string
		prompt   string
	}{
		{"DefaultsApplied", ImageRequest{ImageData: encoded}, "image/jpeg", defaultImagePrompt},
		{"DeclaredType", ImageRequest{ImageData: encoded, MimeType: "image/png", Prompt: "Count the rooms"}, "image/png", "Count the rooms"},
		{"DataURIWins", ImageRequest{ImageData: "data:image/webp;base64," + encoded, MimeType: "image/png"}, "image/webp", defaultImagePrompt},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{gen: &analysis.Generation{Content: "floor plan"}}
			resp, err := NewGenerationService(gen).AnalyzeImage(context.Background(), tc.req)
			require.NoError(t, err)

			assert.Equal(t, "floor plan", resp.Content)
			assert.Equal(t, raw, gen.image)
			assert.Equal(t, tc.mimeType, gen.mimeType)
			assert.Equal(t, tc.prompt, gen.prompt)
		})
	}
}

func TestGenerationService_InvalidImage(t *testing.T) {
	svc := NewGenerationService(&fakeGenerator{})

	for _, data := range []string{"not base64!", "data:image/png,abc", "data:text/plain;base64,aGk=", ""} {
		_, err := svc.AnalyzeImage(context.Background(), ImageRequest{ImageData: data})
		assert.ErrorIs(t, err, ErrInvalidImage, data)
	}
}
