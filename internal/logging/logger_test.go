package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"mercadoria/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "mercadoria", "warn")

	logger.Info("dropped")
	logger.Warn("kept", slog.String("name", "Smartphone X"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "mercadoria", entry["service.name"])
	assert.Equal(t, "Smartphone X", entry["name"])
}
