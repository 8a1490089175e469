package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

func TestGenerator_Generate(t *testing.T) {
	model := &fakeModel{
		reply: "駅近の物件です",
		stop:  "STOP",
		info:  map[string]any{"input_tokens": int32(10), "output_tokens": int32(5), "total_tokens": int32(15)},
	}
	gen, err := NewGenerator(model, zap.NewNop()).Generate(context.Background(), "Describe it", "Be brief", GenerationConfig{})
	require.NoError(t, err)

	assert.Equal(t, "駅近の物件です", gen.Content)
	assert.Equal(t, "STOP", gen.FinishReason)
	assert.Equal(t, Usage{PromptTokens: 10, CandidatesTokens: 5, TotalTokens: 15}, gen.Usage)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, "Be briefDescribe it", model.prompt)

	assert.Equal(t, 2048, model.opts.MaxTokens)
	assert.Equal(t, 0.7, model.opts.Temperature)
	assert.Equal(t, 0.8, model.opts.TopP)
	assert.Equal(t, 40, model.opts.TopK)
	assert.Empty(t, model.opts.StopWords)
}

func TestGenerator_ConfigOverrides(t *testing.T) {
	model := &fakeModel{reply: "ok"}
	zero := 0.0
	cfg := GenerationConfig{MaxOutputTokens: 64, Temperature: &zero, TopK: 5, StopSequences: []string{"END"}}

	_, err := NewGenerator(model, zap.NewNop()).Generate(context.Background(), "q", "", cfg)
	require.NoError(t, err)

	assert.Equal(t, 64, model.opts.MaxTokens)
	assert.Equal(t, 0.0, model.opts.Temperature, "explicit zero temperature is kept")
	assert.Equal(t, 0.8, model.opts.TopP)
	assert.Equal(t, 5, model.opts.TopK)
	assert.Equal(t, []string{"END"}, model.opts.StopWords)
	require.Len(t, model.messages, 1, "blank system instruction is not sent")
}

func TestGenerator_Chat(t *testing.T) {
	model := &fakeModel{reply: "120000 yen"}
	history := []Message{
		{Role: RoleUser, Content: "Is there parking?"},
		{Role: RoleModel, Content: "Yes, 20000 yen per month."},
		{Role: RoleUser, Content: "And the rent?"},
	}

	gen, err := NewGenerator(model, zap.NewNop()).Chat(context.Background(), history, "", GenerationConfig{})
	require.NoError(t, err)
	assert.Equal(t, "120000 yen", gen.Content)

	require.Len(t, model.messages, 3)
	assert.Equal(t, []llms.ChatMessageType{llms.ChatMessageTypeHuman, llms.ChatMessageTypeAI, llms.ChatMessageTypeHuman},
		[]llms.ChatMessageType{model.messages[0].Role, model.messages[1].Role, model.messages[2].Role})
}

func TestGenerator_Errors(t *testing.T) {
	g := NewGenerator(&fakeModel{}, zap.NewNop())

	_, err := g.Chat(context.Background(), nil, "system only", GenerationConfig{})
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = g.Chat(context.Background(), []Message{{Role: RoleUser, Content: "  "}}, "", GenerationConfig{})
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = g.DescribeImage(context.Background(), nil, "image/png", "what is this", GenerationConfig{})
	assert.ErrorIs(t, err, ErrNoMessages)

	failing := NewGenerator(&fakeModel{err: errors.New("quota exceeded")}, zap.NewNop())
	_, err = failing.Generate(context.Background(), "q", "", GenerationConfig{})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestGenerator_DescribeImage(t *testing.T) {
	model := &fakeModel{reply: "A bright living room"}
	image := []byte{0xff, 0xd8, 0xff}

	gen, err := NewGenerator(model, zap.NewNop()).DescribeImage(context.Background(), image, "image/jpeg", "Describe the room", GenerationConfig{})
	require.NoError(t, err)
	assert.Equal(t, "A bright living room", gen.Content)

	require.Len(t, model.messages, 1)
	parts := model.messages[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, llms.BinaryContent{MIMEType: "image/jpeg", Data: image}, parts[0])
	assert.Equal(t, llms.TextContent{Text: "Describe the room"}, parts[1])
}

func TestModels(t *testing.T) {
	models := Models("gemini-1.5-flash")
	require.Len(t, models, 3)
	for _, m := range models {
		assert.Equal(t, m.ID == "gemini-1.5-flash", m.Default, m.ID)
	}

	custom := Models("gemini-2.0-flash")
	require.Len(t, custom, 4)
	assert.Equal(t, ModelInfo{ID: "gemini-2.0-flash", Name: "gemini-2.0-flash", Default: true}, custom[0])
}
