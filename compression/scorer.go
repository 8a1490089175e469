package compression

import (
	"sort"
	"strings"
)

// Scorer rates a sentence for domain relevance. Higher is more important.
type Scorer interface {
	Score(sentence string) int
}

// ScorerConfig is the weighted vocabulary used by KeywordScorer.
type ScorerConfig struct {
	Keywords   map[string]int `yaml:"keywords"`
	Units      []string       `yaml:"units"`
	DigitBonus int            `yaml:"digit_bonus"`
	UnitBonus  int            `yaml:"unit_bonus"`
}

// DefaultScorerConfig returns the real-estate vocabulary.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Keywords: map[string]int{
			// listing identity and money
			"物件": 3, "住所": 3, "価格": 3, "賃料": 3, "家賃": 3, "面積": 3, "間取り": 3,
			"property": 3, "address": 3, "price": 3, "rent": 3, "floor plan": 3, "layout": 3,

			// access and building facts
			"最寄り": 2, "駅": 2, "徒歩": 2, "分": 2, "築": 2, "年": 2, "階": 2, "設備": 2,
			"敷金": 2, "礼金": 2, "管理費": 2, "共益費": 2,
			"station": 2, "walk": 2, "nearest": 2, "built": 2, "deposit": 2, "key money": 2,
			"management fee": 2, "facilities": 2,

			// amenities and surroundings
			"バス": 1, "トイレ": 1, "キッチン": 1, "エアコン": 1, "駐車場": 1, "学校": 1, "病院": 1,
			"コンビニ": 1, "スーパー": 1, "公園": 1, "ペット": 1,
			"bath": 1, "toilet": 1, "kitchen": 1, "air conditioner": 1, "parking": 1, "school": 1,
			"hospital": 1, "convenience store": 1, "supermarket": 1, "park": 1, "pet": 1,
		},
		Units: []string{
			"万円", "円", "㎡", "m²", "分", "km", "階", "年", "月",
			"¥", "min", "floor", "yr",
		},
		DigitBonus: 1,
		UnitBonus:  2,
	}
}

type weightedKeyword struct {
	keyword string
	weight  int
}

// KeywordScorer sums keyword occurrences times weight, plus fixed bonuses for
// digits and unit tokens.
type KeywordScorer struct {
	keywords   []weightedKeyword
	units      []string
	digitBonus int
	unitBonus  int
}

func NewKeywordScorer(cfg ScorerConfig) *KeywordScorer {
	keywords := make([]weightedKeyword, 0, len(cfg.Keywords))
	for k, w := range cfg.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || w <= 0 {
			continue
		}
		keywords = append(keywords, weightedKeyword{keyword: k, weight: w})
	}
	sort.Slice(keywords, func(i, j int) bool {
		return keywords[i].keyword < keywords[j].keyword
	})

	units := make([]string, 0, len(cfg.Units))
	for _, u := range cfg.Units {
		u = strings.ToLower(strings.TrimSpace(u))
		if u != "" {
			units = append(units, u)
		}
	}

	return &KeywordScorer{
		keywords:   keywords,
		units:      units,
		digitBonus: max(cfg.DigitBonus, 0),
		unitBonus:  max(cfg.UnitBonus, 0),
	}
}

func (s *KeywordScorer) Score(sentence string) int {
	lower := strings.ToLower(sentence)

	score := 0
	for _, kw := range s.keywords {
		score += strings.Count(lower, kw.keyword) * kw.weight
	}

	if hasDigit(lower) {
		score += s.digitBonus
	}

	for _, u := range s.units {
		if strings.Contains(lower, u) {
			score += s.unitBonus
			break
		}
	}

	return score
}
