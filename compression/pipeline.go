package compression

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultMaxLength = 30000
	DefaultRatio     = 0.7
)

// Config bundles the tunables of every pipeline stage.
type Config struct {
	Dedup  DedupConfig  `yaml:"dedup"`
	Ranker RankerConfig `yaml:"ranker"`
	Scorer ScorerConfig `yaml:"scorer"`
}

func DefaultConfig() Config {
	return Config{
		Dedup:  DefaultDedupConfig(),
		Ranker: DefaultRankerConfig(),
		Scorer: DefaultScorerConfig(),
	}
}

// Stats describes one Compress run.
type Stats struct {
	InputRunes       int     `json:"input_runes"`
	CleanedRunes     int     `json:"cleaned_runes"`
	DedupedRunes     int     `json:"deduped_runes"`
	SelectedRunes    int     `json:"selected_runes"`
	OutputRunes      int     `json:"output_runes"`
	Truncated        bool    `json:"truncated"`
	Fallback         bool    `json:"fallback"`
	ReductionPercent float64 `json:"reduction_percent"`
}

// Compressor turns scraped text into a bounded, information-dense excerpt:
// clean, deduplicate, rank and select, then truncate. It holds no per-call state
// and is safe for concurrent use.
type Compressor struct {
	deduper *Deduplicator
	ranker  *Ranker
	logger  *zap.Logger
}

func NewCompressor(cfg Config, logger *zap.Logger) *Compressor {
	return NewCompressorWithScorer(cfg, NewKeywordScorer(cfg.Scorer), logger)
}

// NewCompressorWithScorer replaces the keyword scorer, e.g. for another vocabulary model.
func NewCompressorWithScorer(cfg Config, scorer Scorer, logger *zap.Logger) *Compressor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compressor{
		deduper: NewDeduplicator(cfg.Dedup),
		ranker:  NewRanker(scorer, cfg.Ranker),
		logger:  logger,
	}
}

// Compress never fails: if any stage breaks, the input is cut at maxLength instead.
// ratio is the caller's target retention and only informs logging.
func (c *Compressor) Compress(text string, maxLength int, ratio float64) string {
	out, _ := c.CompressWithStats(text, maxLength, ratio)
	return out
}

func (c *Compressor) CompressWithStats(text string, maxLength int, ratio float64) (out string, stats Stats) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if ratio <= 0 || ratio > 1 {
		ratio = DefaultRatio
	}

	stats.InputRunes = runeLen(text)
	if stats.InputRunes == 0 {
		return "", stats
	}

	c.logger.Info("text compression started",
		zap.Int("input_length", stats.InputRunes),
		zap.Int("max_length", maxLength),
		zap.Float64("compression_ratio", ratio))

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("text compression failed, falling back to truncation",
				zap.Error(fmt.Errorf("%v", r)))
			out = fallback(text, maxLength)
			stats.Fallback = true
			stats.Truncated = stats.InputRunes > maxLength
			stats.OutputRunes = runeLen(out)
			stats.ReductionPercent = reduction(stats.InputRunes, stats.OutputRunes)
		}
	}()

	cleaned := Clean(text)
	stats.CleanedRunes = runeLen(cleaned)

	deduped := c.deduper.Dedupe(cleaned)
	stats.DedupedRunes = runeLen(deduped)

	selected := strings.Join(c.ranker.Select(deduped), sentenceJoiner)
	stats.SelectedRunes = runeLen(selected)

	out = selected
	if stats.SelectedRunes > maxLength {
		out = Truncate(selected, maxLength)
		stats.Truncated = true
	}

	stats.OutputRunes = runeLen(out)
	stats.ReductionPercent = reduction(stats.InputRunes, stats.OutputRunes)

	c.logger.Info("text compression finished",
		zap.Int("input_length", stats.InputRunes),
		zap.Int("output_length", stats.OutputRunes),
		zap.String("reduction", fmt.Sprintf("%.1f%%", stats.ReductionPercent)))

	return out, stats
}

func fallback(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) > maxLength {
		return string(runes[:maxLength]) + ellipsis
	}
	return text
}

func reduction(in, out int) float64 {
	if in == 0 {
		return 0
	}
	return (1 - float64(out)/float64(in)) * 100
}
