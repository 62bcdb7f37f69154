package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Console: true, Output: &buf})
		require.NoError(t, err)
		defer l.Close()

		zl := l.Zerolog()
		zl.Info().Str("tool", "translate").Msg("dispatched")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "translate", entry["tool"])
		assert.Equal(t, "dispatched", entry["message"])
		assert.Contains(t, entry, "time")
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "warn", Console: true, Output: &buf})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Info().Msg("hidden")
		zl.Warn().Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "loud", Console: true, Output: &buf})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Debug().Msg("hidden")
		zl.Info().Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "oakplugin.log")

		l, err := New(Config{Level: "debug", File: logFile, MaxSizeMB: 10})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Debug().Msg("written to file")
		require.NoError(t, l.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "written to file")
	})

	t.Run("console and file together", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "oakplugin.log")

		l, err := New(Config{Level: "info", Console: true, Output: &buf, File: logFile, MaxSizeMB: 10})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Info().Msg("both")
		require.NoError(t, l.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "both")
		assert.Contains(t, buf.String(), "both")
	})

	t.Run("redaction", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Console: true, Output: &buf, Redaction: true})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Info().Str("oaktoken", "tok-secret").Msg("request headers")

		assert.NotContains(t, buf.String(), "tok-secret")
		assert.Contains(t, buf.String(), `"oaktoken":"[REDACTED]"`)
	})

	t.Run("redaction of configured headers", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{
			Level:         "info",
			Console:       true,
			Output:        &buf,
			Redaction:     true,
			RedactHeaders: []string{"x-oak-capability"},
		})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Info().Str("x-oak-capability", "tok-custom").Msg("request headers")

		assert.NotContains(t, buf.String(), "tok-custom")
		assert.Contains(t, buf.String(), `"x-oak-capability":"[REDACTED]"`)
	})

	t.Run("pretty console", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Console: true, Pretty: true, Output: &buf})
		require.NoError(t, err)

		zl := l.Zerolog()
		zl.Info().Msg("pretty")

		assert.True(t, strings.Contains(buf.String(), "pretty"))
		assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	})
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Console: true, Output: &buf})
	require.NoError(t, err)

	cl := l.Component("server")
	cl.Info().Msg("listening")

	assert.Contains(t, buf.String(), `"component":"server"`)
}

func TestCloseWithoutFile(t *testing.T) {
	l, err := New(Config{Level: "info", Console: true, Output: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
