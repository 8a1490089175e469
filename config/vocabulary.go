package config

import (
	"fmt"
	"os"

	"propsight/compression"

	"gopkg.in/yaml.v3"
)

// LoadVocabulary reads compression tunables from a YAML file. Sections missing
// from the file keep their defaults; an empty path returns the defaults.
func LoadVocabulary(path string) (compression.Config, error) {
	cfg := compression.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var file compression.Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	if file.Dedup.Threshold > 0 {
		cfg.Dedup.Threshold = file.Dedup.Threshold
	}
	if file.Dedup.MinSentenceRunes > 0 {
		cfg.Dedup.MinSentenceRunes = file.Dedup.MinSentenceRunes
	}
	if file.Ranker.Fraction > 0 {
		cfg.Ranker.Fraction = file.Ranker.Fraction
	}
	if file.Ranker.MinSentenceRunes > 0 {
		cfg.Ranker.MinSentenceRunes = file.Ranker.MinSentenceRunes
	}
	if len(file.Scorer.Keywords) > 0 {
		cfg.Scorer.Keywords = file.Scorer.Keywords
	}
	if len(file.Scorer.Units) > 0 {
		cfg.Scorer.Units = file.Scorer.Units
	}
	if file.Scorer.DigitBonus > 0 {
		cfg.Scorer.DigitBonus = file.Scorer.DigitBonus
	}
	if file.Scorer.UnitBonus > 0 {
		cfg.Scorer.UnitBonus = file.Scorer.UnitBonus
	}

	return cfg, nil
}
