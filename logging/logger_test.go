package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONWithServiceAndModule(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Config{Service: "svc", Module: "engine", Level: "info"}, &buf)
	l.InfoContext(context.Background(), "run started", "paths", 100)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "svc", rec["service"])
	assert.Equal(t, "engine", rec["module"])
	assert.Equal(t, "run started", rec["msg"])
	assert.Contains(t, rec, "timestamp")
	assert.EqualValues(t, 100, rec["paths"])
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Config{Service: "svc", Module: "m", Level: "warn"}, &buf)
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.SetLevel("debug")
	l.Debug("visible")
	assert.True(t, strings.Contains(buf.String(), "visible"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestFileAndConsole(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "app.log")
	l := newLogger(Config{Service: "svc", Module: "m", Level: "info", File: file, Console: true, MaxSize: 1}, &buf)
	l.Info("tee")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tee")
	assert.Contains(t, buf.String(), "tee")
}
