package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const configFileName = "parley.json"

// EnvGatewayURL overrides gateway.base_url when set.
const EnvGatewayURL = "PARLEY_GATEWAY_URL"

// Overridable in tests.
var (
	configHome = func() string { return xdg.ConfigHome }
	dataHome   = func() string { return xdg.DataHome }
	workDir    = os.Getwd
)

// Load finds and loads configuration from standard locations.
// It merges the global config with the project config (project takes
// precedence), fills in defaults and applies environment overrides.
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(GlobalConfigPath(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	if projectPath := findProjectConfig(); projectPath != "" {
		projectCfg := NewConfig()
		if err := loadFile(projectPath, projectCfg); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
		mergeConfig(cfg, projectCfg)
	}

	return finish(cfg)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func findProjectConfig() string {
	cwd, err := workDir()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		for _, name := range []string{configFileName, "." + configFileName} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func mergeConfig(dst, src *Config) {
	if src.Gateway.BaseURL != "" {
		dst.Gateway.BaseURL = src.Gateway.BaseURL
	}
	if src.Gateway.TimeoutSeconds > 0 {
		dst.Gateway.TimeoutSeconds = src.Gateway.TimeoutSeconds
	}
	if src.Search.Limit > 0 {
		dst.Search.Limit = src.Search.Limit
	}
	if src.Recent.TTLSeconds > 0 {
		dst.Recent.TTLSeconds = src.Recent.TTLSeconds
	}

	s, d := &src.Server, &dst.Server
	if s.Listen != "" {
		d.Listen = s.Listen
	}
	if s.DatabasePath != "" {
		d.DatabasePath = s.DatabasePath
	}
	if s.SystemPrompt != "" {
		d.SystemPrompt = s.SystemPrompt
	}
	if s.MaxTokens > 0 {
		d.MaxTokens = s.MaxTokens
	}
	if s.Temperature != nil {
		d.Temperature = s.Temperature
	}
	if s.Provider != nil {
		d.Provider = s.Provider
	}

	if src.Options != nil {
		if dst.Options == nil {
			dst.Options = &Options{}
		}
		if src.Options.DataDir != "" {
			dst.Options.DataDir = src.Options.DataDir
		}
		if src.Options.Debug {
			dst.Options.Debug = true
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(dataHome(), appName)
	}
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = DefaultGatewayURL
	}
	if cfg.Gateway.TimeoutSeconds <= 0 {
		cfg.Gateway.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}
	if cfg.Recent.TTLSeconds <= 0 {
		cfg.Recent.TTLSeconds = DefaultRecentTTL
	}

	s := &cfg.Server
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	if s.DatabasePath == "" {
		s.DatabasePath = filepath.Join(cfg.Options.DataDir, "parley.db")
	}
	if s.SystemPrompt == "" {
		s.SystemPrompt = DefaultSystemPrompt
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Temperature == nil {
		t := DefaultTemperature
		s.Temperature = &t
	}
}

func applyEnv(cfg *Config) {
	if url := strings.TrimSpace(os.Getenv(EnvGatewayURL)); url != "" {
		cfg.Gateway.BaseURL = url
	}
}

// Resolved returns a copy of p with environment references expanded. Only
// the backend needs the secrets, so Load leaves them unresolved.
func (p *ProviderConfig) Resolved() (*ProviderConfig, error) {
	if p == nil {
		return nil, nil
	}
	out := *p
	key, err := Resolve(p.APIKey)
	if err != nil {
		return nil, fmt.Errorf("api_key: %w", err)
	}
	out.APIKey = key

	url, err := Resolve(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("base_url: %w", err)
	}
	out.BaseURL = url
	return &out, nil
}

// Resolve expands a value of the form $NAME or ${NAME} from the
// environment. Other values are returned unchanged. Referencing an unset
// variable is an error.
func Resolve(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}
	name := strings.TrimPrefix(value, "$")
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		name = name[1 : len(name)-1]
	}
	if name == "" {
		return value, nil
	}
	resolved, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return resolved, nil
}
