package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, false)

	log.Info("product created", slog.Int64("id", 42), slog.String("name", "Widget"))

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry), "output: %s", buf.String())

	assert.Equal(t, "product created", logEntry["msg"])
	assert.Equal(t, float64(42), logEntry["id"])
	assert.Equal(t, "Widget", logEntry["name"])
	assert.Equal(t, "INFO", logEntry["level"])
	assert.Contains(t, logEntry, "time")
}

func TestNewJSONLogger_Levels(t *testing.T) {
	t.Run("debug is dropped by default", func(t *testing.T) {
		var buf bytes.Buffer
		NewJSONLogger(&buf, false).Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("debug mode emits debug records", func(t *testing.T) {
		var buf bytes.Buffer
		NewJSONLogger(&buf, true).Debug("visible")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "DEBUG", logEntry["level"])
		assert.Equal(t, "visible", logEntry["msg"])
	})
}

// TestInitJSONLogger_OutputFormat verifies that InitJSONLogger sets up
// JSON formatted output on stdout.
func TestInitJSONLogger_OutputFormat(t *testing.T) {
	oldStdout := os.Stdout
	oldDefault := slog.Default()
	t.Cleanup(func() { slog.SetDefault(oldDefault) })

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	InitJSONLogger(false)
	os.Stdout = oldStdout

	slog.Info("test initialization", slog.String("service", "inventory"), slog.Int("port", 8080))
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry), "output: %s", buf.String())

	assert.Equal(t, "test initialization", logEntry["msg"])
	assert.Equal(t, "inventory", logEntry["service"])
	assert.Equal(t, float64(8080), logEntry["port"])
	assert.Equal(t, "INFO", logEntry["level"])
}
