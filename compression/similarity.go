package compression

// Similarity estimates how alike two normalized fragments are by character
// multiset overlap. Every rune of the shorter string may consume one matching
// rune of the longer string; the score is the consumed share of the shorter string.
// When both have the same length a plays the shorter role.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(longer) == 0 {
		return 1.0
	}

	pool := make(map[rune]int, len(longer))
	for _, r := range longer {
		pool[r]++
	}

	common := 0
	for _, r := range shorter {
		if pool[r] > 0 {
			pool[r]--
			common++
		}
	}

	return float64(common) / float64(len(shorter))
}
