package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, ParseLevel("INFO"))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, slog.LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Error("failure")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown 2")
	require.Contains(t, out, "failure")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")

	l, closer, err := NewFileLogger(path, slog.LevelInfo)
	require.NoError(t, err)
	require.NotNil(t, closer)

	l.Debug("not written")
	l.Info("candidate found", "offset", 42)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "candidate found")
	require.Contains(t, string(data), "offset=42")
	require.NotContains(t, string(data), "not written")

	l, closer, err = NewFileLogger("", slog.LevelDebug)
	require.NoError(t, err)
	require.Nil(t, closer)
	l.Info("discarded")
}
