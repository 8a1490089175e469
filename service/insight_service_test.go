package service

import (
	"context"
	"errors"
	"testing"

	"propsight/analysis"
	"propsight/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTopicAnalyzer struct {
	result    *analysis.TopicResult
	err       error
	topic     analysis.Topic
	address   string
	reference string
}

func (f *fakeTopicAnalyzer) AnalyzeTopic(ctx context.Context, topic analysis.Topic, address, reference string) (*analysis.TopicResult, error) {
	f.topic, f.address, f.reference = topic, address, reference
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestInsightService_Research(t *testing.T) {
	engine := &fakeSearch{results: []search.SearchResult{
		{URL: "https://city.example/hazard", Title: "洪水ハザードマップ", Description: "荒川沿いは浸水想定区域"},
		{URL: "https://empty.example", Title: "No snippet"},
	}}
	analyzer := &fakeTopicAnalyzer{result: &analysis.TopicResult{
		Result:  &analysis.Result{Data: map[string]any{"overall_risk_level": "高"}},
		Signals: &analysis.FloodSignals{RiskLevel: "高"},
	}}
	svc := NewInsightService(engine, analyzer, zap.NewNop())

	resp, err := svc.Research(context.Background(), analysis.TopicFloodRisk, InsightRequest{Address: " 東京都足立区千住 "})
	require.NoError(t, err)

	assert.Equal(t, []string{"東京都足立区千住 浸水 ハザードマップ"}, engine.queries)
	assert.Equal(t, "東京都足立区千住", analyzer.address)
	assert.Equal(t, analysis.TopicFloodRisk, analyzer.topic)
	assert.Equal(t, "- 洪水ハザードマップ: 荒川沿いは浸水想定区域 (https://city.example/hazard)", analyzer.reference)

	assert.Equal(t, []InsightSource{{Title: "洪水ハザードマップ", URL: "https://city.example/hazard"}}, resp.Sources)
	assert.Equal(t, "高", resp.Analysis["overall_risk_level"])
	assert.Equal(t, "高", resp.Signals.RiskLevel)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestInsightService_SearchOptional(t *testing.T) {
	for _, engine := range []search.SearchEngine{nil, &fakeSearch{err: errors.New("quota")}} {
		analyzer := &fakeTopicAnalyzer{result: &analysis.TopicResult{Result: &analysis.Result{RawText: "n/a", ParseError: "no JSON object in model reply"}}}
		svc := NewInsightService(engine, analyzer, zap.NewNop())

		resp, err := svc.Research(context.Background(), analysis.TopicFinancial, InsightRequest{Address: "大阪市北区"})
		require.NoError(t, err)

		assert.Empty(t, analyzer.reference)
		assert.Empty(t, resp.Sources)
		assert.Equal(t, "no JSON object in model reply", resp.ParseError)
	}
}

func TestInsightService_Errors(t *testing.T) {
	svc := NewInsightService(nil, &fakeTopicAnalyzer{err: errors.New("model down")}, zap.NewNop())

	_, err := svc.Research(context.Background(), analysis.TopicFinancial, InsightRequest{Address: " "})
	assert.ErrorIs(t, err, analysis.ErrEmptyInput)

	_, err = svc.Research(context.Background(), analysis.TopicFinancial, InsightRequest{Address: "大阪市北区"})
	assert.ErrorContains(t, err, "model down")
}
