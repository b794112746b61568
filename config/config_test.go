package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "test.db"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.ServerPort)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("unexpected base URL: %s", cfg.OpenAI.BaseURL)
	}
	if len(cfg.OpenAI.Models) != 2 || cfg.OpenAI.Models[0] != "gpt-3.5-turbo-0125" {
		t.Errorf("unexpected model fallback list: %v", cfg.OpenAI.Models)
	}
	if cfg.OpenAI.Temperature != 0.1 {
		t.Errorf("expected temperature 0.1, got %v", cfg.OpenAI.Temperature)
	}
	if cfg.OpenAI.CombineTemp != 0.2 {
		t.Errorf("expected combine temperature 0.2, got %v", cfg.OpenAI.CombineTemp)
	}
	if cfg.Notes.CacheTTL != 24*time.Hour {
		t.Errorf("expected 24h cache TTL, got %s", cfg.Notes.CacheTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENAI_MODELS", "gpt-4o-mini, gpt-3.5-turbo")
	t.Setenv("OPENAI_REQUEST_TIMEOUT", "90s")
	t.Setenv("NOTES_CACHE_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if len(cfg.OpenAI.Models) != 2 || cfg.OpenAI.Models[0] != "gpt-4o-mini" {
		t.Errorf("unexpected models: %v", cfg.OpenAI.Models)
	}
	if cfg.OpenAI.RequestTimeout != 90*time.Second {
		t.Errorf("expected 90s, got %s", cfg.OpenAI.RequestTimeout)
	}
	if cfg.Notes.CacheTTL != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.Notes.CacheTTL)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	setTestDirs(t)

	file := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server_port: \"7070\"\nopenai:\n  api_key: sk-test\n  models:\n    - gpt-4o-mini\n  max_tokens: 4000\n  combine_max_tokens: 4096\n")
	if err := os.WriteFile(file, content, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", file)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerPort != "7070" {
		t.Errorf("expected 7070 from file, got %s", cfg.ServerPort)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected api key from file, got %q", cfg.OpenAI.APIKey)
	}
	if len(cfg.OpenAI.Models) != 1 || cfg.OpenAI.Models[0] != "gpt-4o-mini" {
		t.Errorf("unexpected models: %v", cfg.OpenAI.Models)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	setTestDirs(t)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero max tokens", key: "OPENAI_MAX_TOKENS", value: "0"},
		{name: "combine cap below chunk cap", key: "OPENAI_COMBINE_MAX_TOKENS", value: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
