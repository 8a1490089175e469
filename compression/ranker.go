package compression

import (
	"math"
	"sort"
	"strings"
)

type RankerConfig struct {
	// Fraction of scored sentences kept by Select.
	Fraction float64 `yaml:"fraction"`
	// MinSentenceRunes excludes shorter sentences from scoring.
	MinSentenceRunes int `yaml:"min_sentence_runes"`
}

func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		Fraction:         0.8,
		MinSentenceRunes: 5,
	}
}

type ScoredSentence struct {
	Text  string
	Score int
}

// Ranker orders sentences by importance and keeps the top fraction.
type Ranker struct {
	scorer Scorer
	cfg    RankerConfig
}

func NewRanker(scorer Scorer, cfg RankerConfig) *Ranker {
	def := DefaultRankerConfig()
	if cfg.Fraction <= 0 || cfg.Fraction > 1 {
		cfg.Fraction = def.Fraction
	}
	if cfg.MinSentenceRunes <= 0 {
		cfg.MinSentenceRunes = def.MinSentenceRunes
	}
	return &Ranker{scorer: scorer, cfg: cfg}
}

// Rank scores every sentence of text and stable-sorts them by descending score,
// so equal scores keep document order.
func (r *Ranker) Rank(text string) []ScoredSentence {
	var scored []ScoredSentence
	for sentence := range Sentences(text) {
		sentence = strings.TrimSpace(sentence)
		if runeLen(sentence) < r.cfg.MinSentenceRunes {
			continue
		}
		scored = append(scored, ScoredSentence{
			Text:  sentence,
			Score: r.scorer.Score(sentence),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// Select returns the top ceil(Fraction*N) sentences in score order, at least one
// when anything was scored.
func (r *Ranker) Select(text string) []string {
	scored := r.Rank(text)
	if len(scored) == 0 {
		return nil
	}

	keep := selectCount(len(scored), r.cfg.Fraction)
	selected := make([]string, 0, keep)
	for _, s := range scored[:keep] {
		selected = append(selected, s.Text)
	}
	return selected
}

func selectCount(n int, fraction float64) int {
	// epsilon absorbs float error such as 0.8*10 = 8.000000000000002
	keep := int(math.Ceil(fraction*float64(n) - 1e-9))
	return min(max(keep, 1), n)
}
