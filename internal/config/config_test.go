package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Transcribe.Provider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", cfg.Transcribe.Provider)
	}
	if cfg.Merge || len(cfg.Speakers) != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	content := `speakers:
  - " Interviewer "
  - Guest
merge: true
transcribe:
  provider: openai
  model: whisper-1
  language: en
`
	path := filepath.Join(t.TempDir(), "transcue.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Speakers) != 2 || cfg.Speakers[0] != "Interviewer" || cfg.Speakers[1] != "Guest" {
		t.Errorf("unexpected speakers: %q", cfg.Speakers)
	}
	if !cfg.Merge {
		t.Error("expected merge to be enabled")
	}
	if cfg.Transcribe.Provider != "openai" || cfg.Transcribe.Model != "whisper-1" {
		t.Errorf("unexpected transcribe section: %+v", cfg.Transcribe)
	}
	if cfg.Transcribe.Language != "en" {
		t.Errorf("expected language en, got %q", cfg.Transcribe.Language)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("speakers: [A]\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Speakers) != 1 || cfg.Speakers[0] != "A" {
		t.Errorf("unexpected speakers: %q", cfg.Speakers)
	}
	// unset keys keep their defaults
	if cfg.Transcribe.Provider != "gemini" {
		t.Errorf("expected default provider, got %q", cfg.Transcribe.Provider)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil ||
		!strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("speakers: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-env")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEY", "")

	tests := []struct {
		flag     string
		provider string
		want     string
		wantErr  bool
	}{
		{"flag-key", "gemini", "flag-key", false},
		{"", "gemini", "gem-env", false},
		{"", "openai", "", true},
		{"", "unknown", "", true},
	}

	for _, tt := range tests {
		got, err := APIKey(tt.flag, tt.provider)
		if (err != nil) != tt.wantErr {
			t.Errorf("APIKey(%q, %q) error = %v, wantErr %v", tt.flag, tt.provider, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("APIKey(%q, %q) = %q, want %q", tt.flag, tt.provider, got, tt.want)
		}
	}
}
