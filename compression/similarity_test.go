package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"SubsetForward", "ab", "abc", 1.0},
		{"SubsetBackward", "abc", "ab", 1.0},
		{"RepeatedShorterFirst", "a", "aa", 1.0},
		{"RepeatedLongerFirst", "aa", "a", 1.0},
		{"EmptyLeft", "", "abc", 0.0},
		{"EmptyRight", "abc", "", 0.0},
		{"Disjoint", "abcd", "wxyz", 0.0},
		{"MultisetConsumedForward", "aab", "abb", 2.0 / 3.0},
		{"MultisetConsumedBackward", "abb", "aab", 2.0 / 3.0},
		{"OneCopyPerMatchForward", "aaaa", "ab", 0.5},
		{"OneCopyPerMatchBackward", "ab", "aaaa", 0.5},
		{"Runes", "駅から徒歩", "徒歩で駅", 0.75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"the rent is 120000 yen", "rent 120000 yen monthly"},
		{"quiet street", "busy avenue with shops"},
		{"x", "xxxxxxxxxxxxxxxxxxxxxxx"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
