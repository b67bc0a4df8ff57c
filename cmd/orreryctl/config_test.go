package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/orrery"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, orrery.Parallel, cfg.replayMode())
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
replay_mode = "sequential"
debug = true

[preview]
width = 640
labels = false
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat, "undefined keys keep defaults")
	assert.Equal(t, orrery.Sequential, cfg.replayMode())
	assert.True(t, cfg.Debug)
	assert.Equal(t, 640, cfg.Preview.Width)
	assert.Equal(t, 720, cfg.Preview.Height)
	assert.False(t, cfg.Preview.Labels)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `log_level = "debug"`)
	t.Setenv("ORRERY_LOG_LEVEL", "warn")
	t.Setenv("ORRERY_PREVIEW_HEIGHT", "480")
	t.Setenv("ORRERY_METRICS_ADDR", "127.0.0.1:9464")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 480, cfg.Preview.Height)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `colour = "red"`,
		"bad level":    `log_level = "loud"`,
		"bad format":   `log_format = "xml"`,
		"bad mode":     `replay_mode = "sideways"`,
		"zero width":   "[preview]\nwidth = 0",
		"bad ppu":      "[preview]\npixels_per_unit = -1",
		"invalid toml": `log_level = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		cfg := defaultConfig()
		cfg.LogFormat = format
		cfg.LogLevel = "warn"
		logger, err := cfg.newLogger()
		require.NoError(t, err, format)
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel), format)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel), format)
	}
}
