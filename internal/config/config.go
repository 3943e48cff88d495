package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// env var naming a config file when --config is not given
const EnvConfigPath = "TRANSCUE_CONFIG"

// Config represents the optional YAML configuration file
type Config struct {
	// display names, index 0 is speaker 1
	Speakers []string `yaml:"speakers"`
	Merge    bool     `yaml:"merge"`

	Transcribe struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Language string `yaml:"language"`
		Prompt   string `yaml:"prompt"`
	} `yaml:"transcribe"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Transcribe.Provider = "gemini"
	return cfg
}

// Load reads path, or the TRANSCUE_CONFIG file when path is empty. With
// neither set the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	for i, name := range cfg.Speakers {
		cfg.Speakers[i] = strings.TrimSpace(name)
	}

	return cfg, nil
}

// API key from the flag value or the provider's environment variable
func APIKey(flagValue, provider string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	envVar := APIKeyEnv(provider)
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}

func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "gemini":
		return "GEMINI_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return "API_KEY"
	}
}
