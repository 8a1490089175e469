package analysis

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

var ErrUnknownTopic = errors.New("unknown topic")

// Topic is an area-level question asked about a property's address.
type Topic string

const (
	TopicFloodRisk Topic = "flood-risk"
	TopicFinancial Topic = "financial"
)

func ParseTopic(s string) (Topic, error) {
	switch t := Topic(strings.ToLower(strings.TrimSpace(s))); t {
	case TopicFloodRisk, TopicFinancial:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTopic, s)
	}
}

// SearchQuery is the web query used to gather context for the topic.
func (t Topic) SearchQuery(address string) string {
	switch t {
	case TopicFloodRisk:
		return address + " 浸水 ハザードマップ"
	case TopicFinancial:
		return address + " 財政状況 財政力指数"
	default:
		return address
	}
}

const floodRiskTemplate = `You are a disaster-risk analyst. Assess the flood (浸水) risk for the address below using the reference material and general knowledge of the area. Answer with a single JSON object only, no prose.

Use these keys (null when unknown):
overall_risk_level (高, 中, 低 or 不明), risk_factors (array), safety_measures (array), hazard_maps (array), evacuation_info (array), summary.

Address: {{.address}}
Reference material:
{{.context}}`

const financialTemplate = `You are a municipal finance analyst. Assess the fiscal health of the municipality that contains the address below using the reference material. Answer with a single JSON object only, no prose. Write データ不足 where data is missing.

Use these keys:
positive_factors (array), negative_factors (array), financial_indicators (object with revenue_total, expenditure_total, surplus_deficit, debt_ratio, financial_strength_index), overall_assessment (良好, 普通 or 懸念), summary.

Address: {{.address}}
Reference material:
{{.context}}`

// TopicResult is the parsed model answer for a topic. Flood-risk answers also
// carry signals scanned from the reply text.
type TopicResult struct {
	*Result
	Signals *FloodSignals `json:"signals,omitempty"`
}

func newTopicTemplates() map[Topic]prompts.PromptTemplate {
	vars := []string{"address", "context"}
	return map[Topic]prompts.PromptTemplate{
		TopicFloodRisk: prompts.NewPromptTemplate(floodRiskTemplate, vars),
		TopicFinancial: prompts.NewPromptTemplate(financialTemplate, vars),
	}
}

// AnalyzeTopic answers an area-level topic for an address. reference may be empty.
func (a *Analyzer) AnalyzeTopic(ctx context.Context, topic Topic, address, reference string) (*TopicResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyInput
	}
	tmpl, ok := a.topics[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	if strings.TrimSpace(reference) == "" {
		reference = "(none)"
	}

	prompt, err := tmpl.Format(map[string]any{
		"address": address,
		"context": reference,
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
		a.logger.Error("model call failed", zap.String("topic", string(topic)), zap.Error(err))
		return nil, fmt.Errorf("failed to analyze %s: %w", topic, err)
	}

	result := &TopicResult{Result: ParseReply(reply)}
	result.Duration = time.Since(start)
	if topic == TopicFloodRisk {
		result.Signals = ExtractFloodSignals(reply)
	}

	a.logger.Info("topic analysis finished",
		zap.String("topic", string(topic)),
		zap.String("address", address),
		zap.Bool("parsed", result.Parsed()),
		zap.Duration("duration", result.Duration))

	return result, nil
}

var (
	riskLevelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`浸水リスク[：:]?\s*"?([高中低])`),
		regexp.MustCompile(`リスク(?:レベル)?[：:]?\s*"?([高中低])`),
		regexp.MustCompile(`危険度[：:]?\s*"?([高中低])`),
		regexp.MustCompile(`overall_risk_level"?\s*:\s*"([高中低])`),
	}
	floodRiskFactors = []string{"河川氾濫", "内水氾濫", "高潮", "津波", "土砂災害", "地盤沈下", "低地", "河川近く", "海抜が低い"}
	floodSafetyTerms = []string{"避難場所", "避難経路", "防災グッズ", "水害対策", "土のう", "止水板", "浸水対策"}
	evacuationTerms  = []string{"避難", "緊急", "警報"}
)

// FloodSignals are flood-risk facts found by keyword scan, independent of
// whether the reply parsed as JSON.
type FloodSignals struct {
	RiskLevel         string   `json:"risk_level"`
	RiskFactors       []string `json:"risk_factors"`
	SafetyMeasures    []string `json:"safety_measures"`
	HazardMapAdvised  bool     `json:"hazard_map_advised"`
	EvacuationAdvised bool     `json:"evacuation_advised"`
}

func ExtractFloodSignals(text string) *FloodSignals {
	signals := &FloodSignals{
		RiskLevel:      "不明",
		RiskFactors:    []string{},
		SafetyMeasures: []string{},
	}

	for _, re := range riskLevelPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			signals.RiskLevel = m[1]
			break
		}
	}
	for _, kw := range floodRiskFactors {
		if strings.Contains(text, kw) {
			signals.RiskFactors = append(signals.RiskFactors, kw)
		}
	}
	for _, kw := range floodSafetyTerms {
		if strings.Contains(text, kw) {
			signals.SafetyMeasures = append(signals.SafetyMeasures, kw)
		}
	}
	signals.HazardMapAdvised = strings.Contains(text, "ハザードマップ")
	for _, kw := range evacuationTerms {
		if strings.Contains(text, kw) {
			signals.EvacuationAdvised = true
			break
		}
	}
	return signals
}
