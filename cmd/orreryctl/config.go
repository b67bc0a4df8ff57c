package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/orrery"
)

// config is the orreryctl configuration. Values come from defaults, then an
// optional TOML file, then ORRERY_* environment variables.
type config struct {
	LogLevel    string        `env:"LOG_LEVEL"`
	LogFormat   string        `env:"LOG_FORMAT"`
	ReplayMode  string        `env:"REPLAY_MODE"`
	Debug       bool          `env:"DEBUG"`
	MetricsAddr string        `env:"METRICS_ADDR"`
	Preview     previewConfig `envPrefix:"PREVIEW_"`
}

type previewConfig struct {
	Width         int     `env:"WIDTH"`
	Height        int     `env:"HEIGHT"`
	PixelsPerUnit float64 `env:"PIXELS_PER_UNIT"`
	Labels        bool    `env:"LABELS"`
}

func defaultConfig() config {
	return config{
		LogLevel:   "info",
		LogFormat:  "console",
		ReplayMode: "parallel",
		Preview: previewConfig{
			Width:         960,
			Height:        720,
			PixelsPerUnit: 24,
			Labels:        true,
		},
	}
}

type fileConfig struct {
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	ReplayMode  string `toml:"replay_mode"`
	Debug       bool   `toml:"debug"`
	MetricsAddr string `toml:"metrics_addr"`
	Preview     struct {
		Width         int     `toml:"width"`
		Height        int     `toml:"height"`
		PixelsPerUnit float64 `toml:"pixels_per_unit"`
		Labels        bool    `toml:"labels"`
	} `toml:"preview"`
}

// loadConfig builds the configuration. An empty path skips the file.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "ORRERY_"}); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func applyFile(cfg *config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("replay_mode") {
		cfg.ReplayMode = strings.TrimSpace(raw.ReplayMode)
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("preview", "width") {
		cfg.Preview.Width = raw.Preview.Width
	}
	if meta.IsDefined("preview", "height") {
		cfg.Preview.Height = raw.Preview.Height
	}
	if meta.IsDefined("preview", "pixels_per_unit") {
		cfg.Preview.PixelsPerUnit = raw.Preview.PixelsPerUnit
	}
	if meta.IsDefined("preview", "labels") {
		cfg.Preview.Labels = raw.Preview.Labels
	}
	return nil
}

func (c config) validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("log_format: want console or json, got %q", c.LogFormat)
	}
	if _, err := orrery.ParseReplayMode(c.ReplayMode); err != nil {
		return fmt.Errorf("replay_mode: %w", err)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview: size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.PixelsPerUnit <= 0 {
		return fmt.Errorf("preview: pixels_per_unit must be positive, got %v", c.Preview.PixelsPerUnit)
	}
	return nil
}

func (c config) replayMode() orrery.ReplayMode {
	m, _ := orrery.ParseReplayMode(c.ReplayMode)
	return m
}

// newLogger builds a console or JSON logger at the configured level.
func (c config) newLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.DisableStacktrace = true
	return zc.Build()
}
