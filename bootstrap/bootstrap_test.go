package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/config"
)

func TestInitializeLoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
name = "mc"

[log]
level = "warn"
`), 0o644))

	b := New("montecarlo", "0.1.0")
	var cfg config.Config
	require.NoError(t, b.Initialize(path, &cfg))
	assert.Equal(t, "mc", cfg.Server.Name)
	assert.Equal(t, "0.1.0", cfg.Version)
	assert.NotNil(t, b.Logger)
}

func TestInitializeMissingFile(t *testing.T) {
	b := New("montecarlo", "0.1.0")
	var cfg config.Config
	assert.Error(t, b.Initialize(filepath.Join(t.TempDir(), "missing.toml"), &cfg))
}

func TestLoggerConfig(t *testing.T) {
	lc := LoggerConfig("svc", config.LogConfig{Level: "debug", File: "/tmp/x.log", MaxSize: 10})
	assert.Equal(t, "svc", lc.Service)
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, 10, lc.MaxSize)
}

func TestSetupTracingDisabledIsNoop(t *testing.T) {
	b := New("montecarlo", "0.1.0")
	shutdown := b.SetupTracing(config.TracingConfig{})
	require.NotNil(t, shutdown)
	shutdown()
}
