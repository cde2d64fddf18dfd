// Package config loads server configuration through viper and provides the
// environment-only settings used by the MCP server and the CLI.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LiteConfig is a simplified configuration for standalone operation.
// It requires no external databases and uses sensible defaults.
type LiteConfig struct {
	DataDir string // Base directory for the vault database and exports

	// Cache settings
	CacheMaxItems int
	CacheTTL      time.Duration
	RedisURL      string // Optional: enables the shared reply cache

	// Memory assistant
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".cognisphere")

	return &LiteConfig{
		DataDir:       dataDir,
		CacheMaxItems: 1000,
		CacheTTL:      time.Hour,
		GeminiModel:   "gemini-1.5-flash",
		GeminiBaseURL: "https://generativelanguage.googleapis.com",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	if v := os.Getenv("COGNISPHERE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if v := os.Getenv("COGNISPHERE_CACHE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheMaxItems = n
		}
	}
	if v := os.Getenv("COGNISPHERE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	cfg.RedisURL = os.Getenv("COGNISPHERE_REDIS_URL")

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("COGNISPHERE_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("COGNISPHERE_GEMINI_BASE_URL"); v != "" {
		cfg.GeminiBaseURL = v
	}

	if v := os.Getenv("COGNISPHERE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("COGNISPHERE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// VaultDBPath returns the path to the memory vault SQLite database.
func (c *LiteConfig) VaultDBPath() string {
	return filepath.Join(c.DataDir, "vault.db")
}

// ExportDir returns the directory for JSON exports.
func (c *LiteConfig) ExportDir() string {
	return filepath.Join(c.DataDir, "exports")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *LiteConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.ExportDir(), 0755)
}
