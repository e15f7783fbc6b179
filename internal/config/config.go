// Package config provides configuration management for parley.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const appName = "parley"

// Defaults applied to missing settings.
const (
	DefaultGatewayURL     = "http://127.0.0.1:8000"
	DefaultTimeoutSeconds = 60
	DefaultSearchLimit    = 5
	DefaultRecentTTL      = 30
	DefaultListen         = "127.0.0.1:8000"
	DefaultSystemPrompt   = "You are a helpful assistant."
	DefaultMaxTokens      = 500
	DefaultTemperature    = 0.7
)

// Config is the top-level configuration structure.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Search  SearchConfig  `json:"search"`
	Recent  RecentConfig  `json:"recent"`
	Server  ServerConfig  `json:"server"`
	Options *Options      `json:"options,omitempty"`
}

// GatewayConfig locates the assistant service the client talks to.
type GatewayConfig struct {
	BaseURL        string `json:"base_url,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Timeout returns the per-request timeout.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// SearchConfig tunes the search dialog.
type SearchConfig struct {
	Limit int `json:"limit,omitempty"`
}

// RecentConfig tunes the recent sessions cache.
type RecentConfig struct {
	TTLSeconds int `json:"ttl_seconds,omitempty"`
}

// TTL returns how long the recent list is cached.
func (r RecentConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// ServerConfig configures the development backend started by "parley serve".
//
//nolint:govet // Field order is intentional for JSON readability.
type ServerConfig struct {
	Listen       string          `json:"listen,omitempty"`
	DatabasePath string          `json:"database_path,omitempty"`
	SystemPrompt string          `json:"system_prompt,omitempty"`
	MaxTokens    int64           `json:"max_tokens,omitempty"`
	Temperature  *float64        `json:"temperature,omitempty"`
	Provider     *ProviderConfig `json:"provider,omitempty"`
}

// ProviderConfig describes the model provider used by the backend.
//
//nolint:govet // Field order is intentional for JSON readability.
type ProviderConfig struct {
	ExtraHeaders map[string]string `json:"extra_headers,omitempty"`
	ID           string            `json:"id,omitempty"`
	Type         catwalk.Type      `json:"type,omitempty"`
	BaseURL      string            `json:"base_url,omitempty"`
	APIKey       string            `json:"api_key,omitempty"`
	Model        string            `json:"model,omitempty"`
}

// Options holds optional configuration settings.
type Options struct {
	DataDir string `json:"data_directory,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
}

// NewConfig creates an empty Config.
func NewConfig() *Config {
	return &Config{Options: &Options{}}
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(configHome(), appName, configFileName)
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(dataHome(), appName)
}

// DebugLogPath returns where the TUI writes its debug log.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir(), "debug.log")
}

// SetConfigField updates a single field in the global config file using
// JSON path notation. Only the given field is modified.
func (c *Config) SetConfigField(key string, value any) error {
	return SetFileField(GlobalConfigPath(), key, value)
}

// GetConfigField reads a single field of the global config file.
func GetConfigField(key string) (string, bool, error) {
	return GetFileField(GlobalConfigPath(), key)
}

// SetFileField updates a single field of the config file at path.
func SetFileField(path, key string, value any) error {
	//nolint:gosec // G304: path comes from trusted config locations.
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
		data = []byte("{}")
	}

	newData, err := sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	//nolint:gosec // 0o600 is intentionally restrictive, the file may hold API keys.
	if err := os.WriteFile(path, newData, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetFileField reads a single field of the config file at path. The second
// return value is false when the field is not set.
func GetFileField(path, key string) (string, bool, error) {
	//nolint:gosec // G304: path comes from trusted config locations.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading config file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return "", false, fmt.Errorf("config file %s is not valid JSON", path)
	}
	v := gjson.GetBytes(data, key)
	if !v.Exists() {
		return "", false, nil
	}
	return v.String(), true, nil
}
