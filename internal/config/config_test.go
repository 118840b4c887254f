package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "google" {
		t.Errorf("Provider = %q, want google", cfg.Provider)
	}
	if cfg.Language != "pt-BR" {
		t.Errorf("Language = %q, want pt-BR", cfg.Language)
	}
	if cfg.Format != "kdenlive" {
		t.Errorf("Format = %q, want kdenlive", cfg.Format)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.Concurrency)
	}
	if cfg.SaveClips {
		t.Error("SaveClips should default to false")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narro.yaml")
	content := `provider: openai
voice: alloy
save_clips: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
	if cfg.Voice != "alloy" {
		t.Errorf("Voice = %q, want alloy", cfg.Voice)
	}
	if !cfg.SaveClips {
		t.Error("SaveClips = false, want true")
	}

	// keys absent from the file keep their defaults
	if cfg.Language != "pt-BR" {
		t.Errorf("Language = %q, want default pt-BR", cfg.Language)
	}
	if cfg.Format != "kdenlive" {
		t.Errorf("Format = %q, want default kdenlive", cfg.Format)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want default 3", cfg.Concurrency)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("Load() error = nil, want missing file error")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narro.yaml")
	if err := os.WriteFile(path, []byte("provider: [a, b"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestLoadDefaultWhenFileMissing(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir override relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("LoadDefault() = %+v, want defaults", cfg)
	}
}

func TestLoadDefaultReadsFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir override relies on XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "narro"), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	content := "language: en-US\n"
	path := filepath.Join(dir, "narro", "narro.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Language != "en-US" {
		t.Errorf("Language = %q, want en-US", cfg.Language)
	}
	if cfg.Provider != "google" {
		t.Errorf("Provider = %q, want default google", cfg.Provider)
	}
}
