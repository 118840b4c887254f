package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds narration defaults. Command-line flags override any
// value set here.
type Config struct {
	Provider    string `yaml:"provider"`
	Language    string `yaml:"language"`
	Voice       string `yaml:"voice"`
	Model       string `yaml:"model"`
	Format      string `yaml:"format"`
	Concurrency int    `yaml:"concurrency"`
	SaveClips   bool   `yaml:"save_clips"`
}

func Default() Config {
	return Config{
		Provider:    "google",
		Language:    "pt-BR",
		Format:      "kdenlive",
		Concurrency: 3,
	}
}

// DefaultPath returns the per-user config file location,
// narro/narro.yaml under the OS config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "narro", "narro.yaml"), nil
}

// Load reads the file at path over the defaults. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault reads the per-user config file when it exists. A missing
// file is not an error; the defaults are returned unchanged.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
