// Package config loads and validates the filedepot configuration.
//
// Configuration is resolved in three layers, later layers winning:
//  1. Built-in defaults
//  2. YAML config file (filedepot.yaml)
//  3. FILEDEPOT_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	deperr "github.com/filedepot/filedepot/internal/errors"
)

// DefaultConfigName is the config file looked up in the working directory.
const DefaultConfigName = "filedepot.yaml"

// Config represents the complete filedepot configuration.
type Config struct {
	// Root is the directory subtree to index.
	Root string `yaml:"root"`

	// Extensions is the allow-list of file extensions to index,
	// with or without leading dot, matched case-insensitively.
	Extensions []string `yaml:"extensions"`

	Search  SearchConfig  `yaml:"search"`
	Scan    ScanConfig    `yaml:"scan"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig configures query matching.
type SearchConfig struct {
	// FuzzyThreshold is the maximum accepted fuzzy score in (0, 1].
	// Higher values are more permissive.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// MaxResults caps the number of results returned per query (0 = unlimited).
	MaxResults int `yaml:"max_results"`

	// CacheSize is the capacity of the per-query result cache.
	CacheSize int `yaml:"cache_size"`
}

// ScanConfig configures the directory scanner and rescan schedule.
type ScanConfig struct {
	// RescanIntervalMinutes schedules periodic rescans (0 = disabled).
	RescanIntervalMinutes int `yaml:"rescan_interval_minutes"`

	// Workers is the number of concurrent metadata workers (0 = NumCPU).
	Workers int `yaml:"workers"`

	// FollowSymlinks enables following symbolic links (default: false).
	FollowSymlinks bool `yaml:"follow_symlinks"`
}

// WatchConfig configures change-triggered rescans.
type WatchConfig struct {
	// Enabled turns on the filesystem watcher in serve mode.
	Enabled bool `yaml:"enabled"`

	// Debounce is the window for coalescing change events (e.g. "500ms").
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	FilePath  string `yaml:"file_path"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Root:       ".",
		Extensions: []string{"pdf", "txt", "md", "epub", "zip"},
		Search: SearchConfig{
			FuzzyThreshold: 0.4,
			MaxResults:     0,
			CacheSize:      256,
		},
		Scan: ScanConfig{
			RescanIntervalMinutes: 0,
			Workers:               0,
			FollowSymlinks:        false,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// Load reads configuration from the given path, applies environment overrides,
// and validates the result. An empty path falls back to DefaultConfigName in
// the working directory; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, deperr.New(deperr.ErrCodeConfigInvalid,
				fmt.Sprintf("failed to parse %s", path), err)
		}
	case os.IsNotExist(err):
		if explicit {
			return nil, deperr.New(deperr.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", path), err)
		}
	default:
		return nil, deperr.New(deperr.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to read %s", path), err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies FILEDEPOT_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FILEDEPOT_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("FILEDEPOT_EXTENSIONS"); v != "" {
		c.Extensions = splitList(v)
	}
	if v := os.Getenv("FILEDEPOT_FUZZY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.FuzzyThreshold = f
		}
	}
	if v := os.Getenv("FILEDEPOT_RESCAN_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.RescanIntervalMinutes = n
		}
	}
	if v := os.Getenv("FILEDEPOT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Root == "" {
		return deperr.New(deperr.ErrCodeConfigInvalid, "root directory must be set", nil)
	}
	if len(c.Extensions) == 0 {
		return deperr.New(deperr.ErrCodeConfigInvalid, "at least one extension must be allowed", nil)
	}
	if c.Search.FuzzyThreshold <= 0 || c.Search.FuzzyThreshold > 1 {
		return deperr.New(deperr.ErrCodeInvalidThreshold,
			fmt.Sprintf("fuzzy_threshold must be in (0, 1], got %v", c.Search.FuzzyThreshold), nil)
	}
	if c.Scan.RescanIntervalMinutes < 0 {
		return deperr.New(deperr.ErrCodeConfigInvalid, "rescan_interval_minutes must be >= 0", nil)
	}
	if c.Search.CacheSize < 0 {
		return deperr.New(deperr.ErrCodeConfigInvalid, "search cache_size must be >= 0", nil)
	}
	if _, err := c.DebounceWindow(); err != nil {
		return deperr.New(deperr.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid watch debounce %q", c.Watch.Debounce), err)
	}
	return nil
}

// AbsRoot returns the absolute, cleaned root directory.
func (c *Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return "", deperr.New(deperr.ErrCodeInvalidPath,
			fmt.Sprintf("cannot resolve root %q", c.Root), err)
	}
	return abs, nil
}

// RescanInterval returns the periodic rescan interval, zero when disabled.
func (c *Config) RescanInterval() time.Duration {
	return time.Duration(c.Scan.RescanIntervalMinutes) * time.Minute
}

// DebounceWindow parses the watch debounce duration.
func (c *Config) DebounceWindow() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 500 * time.Millisecond, nil
	}
	return time.ParseDuration(c.Watch.Debounce)
}

// NormalizedExtensions returns the extension allow-list lowercased with
// leading dots, e.g. "PDF" -> ".pdf".
func (c *Config) NormalizedExtensions() []string {
	out := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// splitList splits a comma-separated list, trimming whitespace.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
