// Package config loads application configuration from YAML with
// environment-variable fallbacks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Provider selection: anthropic, openai or mock. Empty picks the
	// first provider with a configured key.
	Provider string `yaml:"provider"`

	// API Keys
	AnthropicKey string `yaml:"anthropic_key"`
	OpenAIKey    string `yaml:"openai_key"`

	// Model Configuration
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`

	// Store Configuration
	Redis   RedisConfig `yaml:"redis"`
	DataDir string      `yaml:"data_dir"`

	// Notion export
	Notion NotionConfig `yaml:"notion"`

	// HTTP server
	HTTPPort int `yaml:"http_port"`
}

// RedisConfig holds Redis connection settings. A blank Addr disables Redis
// and the file store is used instead.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// NotionConfig holds Notion integration credentials.
type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storyforge.yaml"
	}
	return filepath.Join(home, ".storyforge", "config.yaml")
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: defaults and environment variables still apply.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Load credentials from environment if not in config
	if cfg.AnthropicKey == "" {
		cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Notion.Token == "" {
		cfg.Notion.Token = os.Getenv("NOTION_TOKEN")
	}
	if cfg.Notion.DatabaseID == "" {
		cfg.Notion.DatabaseID = os.Getenv("NOTION_DATABASE_ID")
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	}
	if cfg.HTTPPort == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			cfg.HTTPPort = port
		}
	}

	// Apply defaults
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "storyforge:"
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DataDir = filepath.Join(home, ".storyforge")
		} else {
			cfg.DataDir = ".storyforge"
		}
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}

	return &cfg, nil
}

// SaveConfig saves configuration to a YAML file, creating the parent
// directory if needed.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid for generation. The mock
// provider never needs keys.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("anthropic provider selected but no API key configured")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("openai provider selected but no API key configured")
		}
	case "", "mock":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	}

	return nil
}
