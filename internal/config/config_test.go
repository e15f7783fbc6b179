package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// isolate points every config location at temporary directories.
func isolate(t *testing.T) (globalDir, projectDir string) {
	t.Helper()
	root := t.TempDir()
	globalDir = filepath.Join(root, "config")
	projectDir = filepath.Join(root, "project", "nested")
	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		t.Fatal(err)
	}

	oldConfig, oldData, oldWD := configHome, dataHome, workDir
	configHome = func() string { return globalDir }
	dataHome = func() string { return filepath.Join(root, "data") }
	workDir = func() (string, error) { return projectDir, nil }
	t.Cleanup(func() {
		configHome, dataHome, workDir = oldConfig, oldData, oldWD
	})
	t.Setenv(EnvGatewayURL, "")
	return globalDir, projectDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Gateway.BaseURL != DefaultGatewayURL {
		t.Errorf("BaseURL = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Timeout().Seconds() != DefaultTimeoutSeconds {
		t.Errorf("Timeout = %v", cfg.Gateway.Timeout())
	}
	if cfg.Search.Limit != DefaultSearchLimit {
		t.Errorf("Search.Limit = %d", cfg.Search.Limit)
	}
	if cfg.Server.Temperature == nil || *cfg.Server.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v", cfg.Server.Temperature)
	}
	if filepath.Base(cfg.Server.DatabasePath) != "parley.db" {
		t.Errorf("DatabasePath = %q", cfg.Server.DatabasePath)
	}
	if cfg.Server.Provider != nil {
		t.Error("no provider should be configured by default")
	}
}

func TestLoadMergesProjectOverGlobal(t *testing.T) {
	globalDir, projectDir := isolate(t)

	writeFile(t, filepath.Join(globalDir, appName, configFileName), `{
		"gateway": {"base_url": "http://global:8000", "timeout_seconds": 10},
		"search": {"limit": 8},
		"options": {"debug": true}
	}`)
	// Found by walking up from the nested working directory.
	writeFile(t, filepath.Join(filepath.Dir(projectDir), "."+configFileName), `{
		"gateway": {"base_url": "http://project:9000"}
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Gateway.BaseURL != "http://project:9000" {
		t.Errorf("BaseURL = %q, want project value", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want global value", cfg.Gateway.TimeoutSeconds)
	}
	if cfg.Search.Limit != 8 || !cfg.Options.Debug {
		t.Errorf("global values lost: limit=%d debug=%v", cfg.Search.Limit, cfg.Options.Debug)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv(EnvGatewayURL, "http://env:1234")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gateway.BaseURL != "http://env:1234" {
		t.Errorf("BaseURL = %q, want env override", cfg.Gateway.BaseURL)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	globalDir, _ := isolate(t)
	writeFile(t, filepath.Join(globalDir, appName, configFileName), `{not json`)

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestProviderResolved(t *testing.T) {
	_, projectDir := isolate(t)
	t.Setenv("PARLEY_TEST_KEY", "sk-secret")
	writeFile(t, filepath.Join(projectDir, configFileName), `{
		"server": {"provider": {"type": "openai", "api_key": "$PARLEY_TEST_KEY", "model": "gpt-4o-mini"}}
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Provider.APIKey != "$PARLEY_TEST_KEY" {
		t.Errorf("Load resolved the key: %q", cfg.Server.Provider.APIKey)
	}
	p, err := cfg.Server.Provider.Resolved()
	if err != nil {
		t.Fatal(err)
	}
	if p.APIKey != "sk-secret" || p.Model != "gpt-4o-mini" {
		t.Errorf("Resolved() = %+v", p)
	}

	writeFile(t, filepath.Join(projectDir, configFileName), `{
		"server": {"provider": {"api_key": "$PARLEY_TEST_MISSING"}}
	}`)
	cfg, err = Load()
	if err != nil {
		t.Fatalf("an unset key should not fail Load: %v", err)
	}
	if _, err := cfg.Server.Provider.Resolved(); err == nil {
		t.Error("expected error for unset variable")
	}

	var none *ProviderConfig
	if p, err := none.Resolved(); p != nil || err != nil {
		t.Errorf("nil provider resolved to (%v, %v)", p, err)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("PARLEY_RESOLVE", "value")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "plain", false},
		{"", "", false},
		{"$PARLEY_RESOLVE", "value", false},
		{"${PARLEY_RESOLVE}", "value", false},
		{"$PARLEY_NOT_SET_ANYWHERE", "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestSetAndGetFileField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", configFileName)

	if _, ok, err := GetFileField(path, "gateway.base_url"); err != nil || ok {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}

	if err := SetFileField(path, "gateway.base_url", "http://example:8000"); err != nil {
		t.Fatalf("SetFileField() error = %v", err)
	}
	if err := SetFileField(path, "search.limit", 7); err != nil {
		t.Fatalf("SetFileField() error = %v", err)
	}

	got, ok, err := GetFileField(path, "gateway.base_url")
	if err != nil || !ok || got != "http://example:8000" {
		t.Errorf("GetFileField() = (%q, %v, %v)", got, ok, err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.Limit != 7 || cfg.Gateway.BaseURL != "http://example:8000" {
		t.Errorf("loaded %+v", cfg)
	}
}

func TestSaveToFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), configFileName)

	cfg := NewConfig()
	cfg.Gateway.BaseURL = "http://saved:8000"
	cfg.Server.Provider = &ProviderConfig{Type: "anthropic", APIKey: "$ANTHROPIC_API_KEY"}
	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	key, ok, err := GetFileField(path, "server.provider.api_key")
	if err != nil || !ok || key != "$ANTHROPIC_API_KEY" {
		t.Errorf("api_key = (%q, %v, %v), want the env reference", key, ok, err)
	}
}

func TestUseTemplate(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), configFileName)

	if _, err := UseTemplate(path, "nope", ""); err == nil {
		t.Error("expected error for unknown template")
	}

	p, err := UseTemplate(path, "LMStudio", "qwen2.5-7b")
	if err != nil {
		t.Fatalf("UseTemplate() error = %v", err)
	}
	if p.Model != "qwen2.5-7b" || p.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("provider = %+v", p)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Provider == nil || cfg.Server.Provider.Type != catwalk.TypeOpenAICompat {
		t.Errorf("loaded provider = %+v", cfg.Server.Provider)
	}

	names := TemplateNames()
	if len(names) == 0 || !slices.IsSorted(names) {
		t.Errorf("TemplateNames() = %v", names)
	}
}
