package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "propsight.log")

	log := New(Config{FilePath: path})
	log.Info("session saved", zap.String("uuid", "abc"))
	log.Debug("not written at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "session saved", entry["msg"])
	assert.Equal(t, "abc", entry["uuid"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_DebugLevel(t *testing.T) {
	log := New(Config{Debug: true})
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log = New(Config{})
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}
