package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reverig.log")

	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("button row missing", "appid", 440)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "button row missing", record["msg"])
	assert.Equal(t, float64(440), record["appid"])
	assert.Equal(t, float64(os.Getpid()), record["pid"])
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/logs/reverig.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "reverig.log"), got)

	got, err = ExpandHome("/var/log/reverig.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/reverig.log", got)

	got, err = ExpandHome("~other/file")
	require.NoError(t, err)
	assert.Equal(t, "~other/file", got)
}

func TestNullLogger(t *testing.T) {
	assert.False(t, NullLogger().Enabled(t.Context(), 12))
}
