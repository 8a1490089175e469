package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{"ASCII", "A. B! C?", []string{"A", "B", "C", ""}},
		{"FullWidth", "first。second！third？", []string{"first", "second", "third", ""}},
		{"NoTerminal", "no terminal punctuation", []string{"no terminal punctuation"}},
		{"Empty", "", []string{""}},
		{"Ellipsis", "wait... then", []string{"wait", "", "", "then"}},
		{"TrailingSpaceConsumed", "one.   two", []string{"one", "two"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitSentences(tc.text))
		})
	}
}

func TestSentences_Restartable(t *testing.T) {
	seq := Sentences("Rent is due. Keys are ready! Move in?")

	var first, second []string
	for s := range seq {
		first = append(first, s)
	}
	for s := range seq {
		second = append(second, s)
	}

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestSentences_StopEarly(t *testing.T) {
	count := 0
	for range Sentences("a. b. c. d.") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world foo", Normalize("  Hello   World\tFOO "))
	assert.Equal(t, "駅から徒歩5分", Normalize("駅から徒歩5分"))
	assert.Equal(t, "", Normalize("   "))
}
