package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Workspace    WorkspaceConfig `yaml:"workspace" json:"workspace"`
	Store        StoreConfig     `yaml:"store" json:"store"`
	Cache        CacheConfig     `yaml:"cache" json:"cache"`
	LLM          LLMConfig       `yaml:"llm" json:"llm"`
	Concurrency  Concurrency     `yaml:"concurrency" json:"concurrency"`
	RateLimiting RateLimiting    `yaml:"rate_limiting" json:"rate_limiting"`
	Logging      LoggingConfig   `yaml:"logging" json:"logging"`
	Output       OutputConfig    `yaml:"output" json:"output"`
}

// WorkspaceConfig governs file collection
type WorkspaceConfig struct {
	Root         string   `yaml:"root" json:"root"`                     // Workspace root to scan
	MaxFiles     int      `yaml:"max_files" json:"max_files"`           // Cap on files per verification
	MaxFileBytes int64    `yaml:"max_file_bytes" json:"max_file_bytes"` // Skip files larger than this
	IgnoreDirs   []string `yaml:"ignore_dirs" json:"ignore_dirs"`       // Directory names never descended into
}

// StoreConfig governs claim/result persistence
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"` // SQLite database path
}

// CacheConfig governs the file-content cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// LLMConfig configures the optional verdict explainer.
// The explainer never affects verdicts or confidence.
type LLMConfig struct {
	Provider       string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model          string `yaml:"model" json:"model"`
	APIKey         string `yaml:"-" json:"-"`
	BaseURL        string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout        int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens" json:"max_tokens"`
	StrictEvidence bool   `yaml:"strict_evidence" json:"strict_evidence"`
}

// Concurrency configures the batch worker pool
type Concurrency struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimiting configures per-conversation throttling on the tool boundary
type RateLimiting struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// LoggingConfig configures the process-wide slog handler
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text or json
}

// OutputConfig governs report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Root:         ".",
			MaxFiles:     50,
			MaxFileBytes: 1_000_000,
			IgnoreDirs:   []string{".git", "node_modules", "vendor", "dist", "build"},
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    "slopwatch.db",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:       "",
			Timeout:        30,
			MaxTokens:      500,
			StrictEvidence: true,
		},
		Concurrency: Concurrency{
			Workers: 4,
		},
		RateLimiting: RateLimiting{
			RequestsPerSecond: 5,
			BurstSize:         10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
