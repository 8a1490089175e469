package scraper

import (
	"regexp"
	"strings"
)

var propertyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`物件名[：:\s]*[^\n]+`),
	regexp.MustCompile(`住所[：:\s]*[^\n]+`),
	regexp.MustCompile(`価格[：:\s]*[^\n]+`),
	regexp.MustCompile(`賃料[：:\s]*[^\n]+`),
	regexp.MustCompile(`家賃[：:\s]*[^\n]+`),
	regexp.MustCompile(`面積[：:\s]*[^\n]+`),
	regexp.MustCompile(`間取り[：:\s]*[^\n]+`),
	regexp.MustCompile(`築年数[：:\s]*[^\n]+`),
	regexp.MustCompile(`最寄り駅[：:\s]*[^\n]+`),
	regexp.MustCompile(`徒歩[：:\s]*\d+分`),
	regexp.MustCompile(`階[：:\s]*\d+階`),
	regexp.MustCompile(`駐車場[：:\s]*[^\n]+`),
	regexp.MustCompile(`設備[：:\s]*[^\n]+`),
	regexp.MustCompile(`敷金[：:\s]*[^\n]+`),
	regexp.MustCompile(`礼金[：:\s]*[^\n]+`),
	regexp.MustCompile(`管理費[：:\s]*[^\n]+`),
	regexp.MustCompile(`共益費[：:\s]*[^\n]+`),
	regexp.MustCompile(`\d+万円`),
	regexp.MustCompile(`\d+円`),
	regexp.MustCompile(`\d+㎡`),
	regexp.MustCompile(`\d+m²`),
	regexp.MustCompile(`(?i)\d+(?:LDK|DK|K)\b`),
	regexp.MustCompile(`築\d+年`),
}

// ExtractPropertyInfo collects labelled listing facts (rent, area, layout,
// station) from text, one per line in pattern order with duplicates removed.
// The input is returned unchanged when nothing matches.
func ExtractPropertyInfo(text string) string {
	var facts []string
	seen := make(map[string]struct{})

	for _, re := range propertyPatterns {
		for _, match := range re.FindAllString(text, -1) {
			match = strings.TrimSpace(match)
			if _, ok := seen[match]; ok || match == "" {
				continue
			}
			seen[match] = struct{}{}
			facts = append(facts, match)
		}
	}

	if len(facts) == 0 {
		return text
	}
	return strings.Join(facts, "\n")
}
