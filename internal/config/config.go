// Package config provides configuration loading and structs for the niteru server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/niteru/internal/catalog"
	"github.com/hyperjump/niteru/internal/tfidf"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool          `yaml:"debug"`
	LogFormat string        `yaml:"log_format,omitempty"`
	Server    ServerConfig  `yaml:"server"`
	Catalog   CatalogConfig `yaml:"catalog"`
	Engine    EngineConfig  `yaml:"engine"`
	Query     QueryConfig   `yaml:"query"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// RateLimit is the number of requests allowed per client IP per minute. Negative disables it.
	RateLimit             int `yaml:"rate_limit"`
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequestTimeout returns the per-request timeout.
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// CatalogConfig selects where movies come from and whether to follow file changes.
type CatalogConfig struct {
	// Source is "builtin", "builtin:enhanced", or a path to a .yaml, .yml, .json, .xlsx, .db, or .sqlite file.
	Source     string `yaml:"source"`
	Watch      bool   `yaml:"watch"`
	DebounceMS int    `yaml:"debounce_ms"`
}

// Debounce returns the watcher quiet period.
func (c CatalogConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// IsBuiltin reports whether the bundled catalog is selected.
func (c CatalogConfig) IsBuiltin() bool {
	return catalog.IsBuiltin(c.Source)
}

// EngineConfig holds TF-IDF and scoring settings.
type EngineConfig struct {
	NGramMax int `yaml:"ngram_max"`
	// MaxFeatures caps the vocabulary; negative means unlimited.
	MaxFeatures          int  `yaml:"max_features"`
	MinTokenLength       int  `yaml:"min_token_length"`
	SublinearTF          bool `yaml:"sublinear_tf"`
	ScorePrecision       *int `yaml:"score_precision"`
	AllowEmptyVocabulary bool `yaml:"allow_empty_vocabulary"`
}

// ScorePrecisionOrDefault returns the score rounding precision; defaults to 3 when unset.
func (e *EngineConfig) ScorePrecisionOrDefault() int {
	if e.ScorePrecision != nil && *e.ScorePrecision >= 0 {
		return *e.ScorePrecision
	}
	return 3
}

// TFIDFOptions converts the engine settings to model options.
func (e *EngineConfig) TFIDFOptions() tfidf.Options {
	return tfidf.Options{
		NGramMax:       e.NGramMax,
		MaxFeatures:    e.MaxFeatures,
		MinTokenLength: e.MinTokenLength,
		SublinearTF:    e.SublinearTF,
	}
}

// QueryConfig holds defaults and limits for recommendation and search queries.
type QueryConfig struct {
	DefaultTopN int `yaml:"default_top_n"`
	MaxTopN     int `yaml:"max_top_n"`
	SearchLimit int `yaml:"search_limit"`
	Fuzziness   int `yaml:"fuzziness"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if !cfg.Catalog.IsBuiltin() {
		cfg.Catalog.Source = expandPath(cfg.Catalog.Source, filepath.Dir(path))
	}
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
