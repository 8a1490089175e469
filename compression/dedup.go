package compression

import "strings"

const sentenceJoiner = ". "

type DedupConfig struct {
	// Threshold is the similarity above which a sentence counts as a near-duplicate.
	Threshold float64 `yaml:"threshold"`
	// MinSentenceRunes drops normalized sentences shorter than this before comparison.
	MinSentenceRunes int `yaml:"min_sentence_runes"`
}

func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		Threshold:        0.7,
		MinSentenceRunes: 10,
	}
}

// Deduplicator removes near-duplicate sentences, keeping the first occurrence.
type Deduplicator struct {
	cfg DedupConfig
}

func NewDeduplicator(cfg DedupConfig) *Deduplicator {
	def := DefaultDedupConfig()
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MinSentenceRunes <= 0 {
		cfg.MinSentenceRunes = def.MinSentenceRunes
	}
	return &Deduplicator{cfg: cfg}
}

// UniqueSentences returns the trimmed original sentences that survive deduplication,
// in document order.
func (d *Deduplicator) UniqueSentences(text string) []string {
	var unique []string
	var seen []string

	for sentence := range Sentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		normalized := Normalize(sentence)
		if runeLen(normalized) < d.cfg.MinSentenceRunes || isAllDigits(normalized) {
			continue
		}

		if d.isNearDuplicate(normalized, seen) {
			continue
		}

		unique = append(unique, sentence)
		seen = append(seen, normalized)
	}

	return unique
}

// Dedupe removes near-duplicate sentences and joins the survivors with ". ".
func (d *Deduplicator) Dedupe(text string) string {
	return strings.Join(d.UniqueSentences(text), sentenceJoiner)
}

func (d *Deduplicator) isNearDuplicate(normalized string, seen []string) bool {
	for _, s := range seen {
		if Similarity(normalized, s) > d.cfg.Threshold {
			return true
		}
	}
	return false
}
