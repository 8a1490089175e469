package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("VOCABULARY_PATH", "")
	t.Setenv("LOG_FILE", "")

	out := &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		compressStats = false
		compressMaxLength = 0
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCompressCommand(t *testing.T) {
	out := runCLI(t, "駅から徒歩5分の好立地です。駅から徒歩5分の好立地です。", "compress", "-")
	assert.Equal(t, "駅から徒歩5分の好立地です\n", out)
}

func TestCompressCommand_Stats(t *testing.T) {
	out := runCLI(t, "駅から徒歩5分の好立地です。駅から徒歩5分の好立地です。", "compress", "--stats", "-")

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, 28, stats["input_runes"])
	assert.EqualValues(t, 13, stats["output_runes"])
}
