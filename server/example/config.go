package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/server/auth/memory"
)

// EngineSettings selects the recurrence cache. TTL and MaxEntries override
// the preset when set.
type EngineSettings struct {
	Preset     string        `yaml:"preset"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// Config is the top-level configuration of the example server.
type Config struct {
	// Listen is the HTTP listen address.
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
	// Metrics enables the Prometheus collectors and GET /metrics.
	Metrics bool           `yaml:"metrics"`
	Engine  EngineSettings `yaml:"engine"`
	// SeedFile is a YAML list of events loaded at startup.
	SeedFile string `yaml:"seed_file"`
	// Users, if any, enables HTTP Basic auth on every route except Public.
	Users  []memory.User `yaml:"users"`
	Public []string      `yaml:"public"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8080",
		LogLevel: "info",
		Metrics:  true,
		Engine:   EngineSettings{Preset: "default"},
		Public:   []string{"/calendar.ics"},
	}
}

// Normalize fills in missing values so that partial files still work.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = "info"
	}
	if c.Engine.Preset == "" {
		c.Engine.Preset = "default"
	}
}

// EngineConfig resolves the engine preset and applies the overrides.
func (c *Config) EngineConfig() (recurrence.EngineConfig, error) {
	cfg, err := recurrence.PresetConfig(c.Engine.Preset)
	if err != nil {
		return recurrence.EngineConfig{}, err
	}
	if !cfg.CacheEnabled {
		return cfg, nil
	}
	if c.Engine.TTL > 0 {
		cfg.CacheConfig.TTL = c.Engine.TTL
	}
	if c.Engine.MaxEntries > 0 {
		cfg.CacheConfig.MaxEntries = c.Engine.MaxEntries
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig reads the YAML file at path. An empty path or a missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadSeed reads a YAML list of events. Every event must pass form
// validation.
func LoadSeed(path string) ([]calendar.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var events []calendar.Event
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse seed %s: %w", path, err)
	}
	for i, ev := range events {
		if err := calendar.ValidateForm(ev); err != nil {
			return nil, fmt.Errorf("seed event %d (%q): %w", i, ev.Title, err)
		}
	}
	return events, nil
}
