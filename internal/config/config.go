// Package config provides configuration management for surveyor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/thebtf/surveyor/pkg/similarity"
)

// Defaults.
const (
	DefaultHTTPPort = 8844
	DefaultMaxConns = 4
	DefaultWorkers  = 2
)

// Config holds all surveyor settings, persisted as JSON in the data
// directory.
type Config struct {
	HTTPPort            int     `json:"http_port"`
	MaxConns            int     `json:"max_conns"`
	Workers             int     `json:"workers"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	StemAnswers         bool    `json:"stem_answers"`
	ListLimit           int     `json:"list_limit"`
}

var (
	cached   *Config
	cachedMu sync.Mutex
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		HTTPPort:            DefaultHTTPPort,
		MaxConns:            DefaultMaxConns,
		Workers:             DefaultWorkers,
		SimilarityThreshold: similarity.DefaultThreshold,
		StemAnswers:         false,
		ListLimit:           100,
	}
}

// DataDir returns the surveyor data directory (~/.surveyor).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".surveyor"
	}
	return filepath.Join(home, ".surveyor")
}

// DBPath returns the SQLite database path.
func DBPath() string {
	return filepath.Join(DataDir(), "surveyor.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}

// EnsureSettings writes a default settings file if none exists.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(Default())
}

// EnsureAll creates the data directory and default settings file.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	return EnsureSettings()
}

// Load reads the settings file. Missing fields fall back to defaults.
func Load() (*Config, error) {
	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	cfg.normalize()

	cachedMu.Lock()
	cached = cfg
	cachedMu.Unlock()
	return cfg, nil
}

// Save writes the settings file.
func Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(SettingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	cachedMu.Lock()
	cached = cfg
	cachedMu.Unlock()
	return nil
}

// Get returns the last loaded config, loading it on first use. Falls back
// to defaults if the settings file is missing or unreadable.
func Get() *Config {
	cachedMu.Lock()
	if cached != nil {
		cfg := cached
		cachedMu.Unlock()
		return cfg
	}
	cachedMu.Unlock()

	cfg, err := Load()
	if err != nil {
		cfg = Default()
		cachedMu.Lock()
		cached = cfg
		cachedMu.Unlock()
	}
	return cfg
}

// normalize clamps invalid values back to defaults.
func (c *Config) normalize() {
	if c.HTTPPort <= 0 {
		c.HTTPPort = DefaultHTTPPort
	}
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		c.SimilarityThreshold = similarity.DefaultThreshold
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 100
	}
}
