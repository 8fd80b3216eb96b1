package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables that override routing settings without a config file.
const (
	EnvSimpleMax       = "TIERGATE_SIMPLE_MAX"
	EnvMediumMax       = "TIERGATE_MEDIUM_MAX"
	EnvDefaultProvider = "TIERGATE_DEFAULT_PROVIDER"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	DeepSeekAPIKey  string
	RoutingConfig   *RoutingConfig
	Aliases         *ModelAliases
	ConfigDir       string
}

// Load reads ~/.tiergate/routing.yaml (or the built-in defaults) and API keys
// from the environment. API keys are never read from files.
func Load() (*Config, error) {
	return load("")
}

// LoadWithRoutingFile loads config with a specific routing file.
func LoadWithRoutingFile(routingPath string) (*Config, error) {
	return load(routingPath)
}

func load(routingPath string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg := &Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		ConfigDir:       configDir,
	}

	if routingPath == "" {
		defaultPath := filepath.Join(configDir, "routing.yaml")
		if _, err := os.Stat(defaultPath); err == nil {
			routingPath = defaultPath
		}
	}

	if routingPath != "" {
		routing, err := LoadRoutingConfig(routingPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load routing config from %s: %w", routingPath, err)
		}
		cfg.RoutingConfig = routing
	} else {
		cfg.RoutingConfig = DefaultRoutingConfig()
	}

	if err := ApplyEnvOverrides(cfg.RoutingConfig); err != nil {
		return nil, err
	}

	aliases, err := LoadAliasesWithFallback(configDir, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load model aliases: %w", err)
	}
	cfg.Aliases = aliases
	cfg.RoutingConfig.ResolveModels(aliases)

	return cfg, nil
}

// ApplyEnvOverrides applies TIERGATE_* environment variables on top of rc.
func ApplyEnvOverrides(rc *RoutingConfig) error {
	if v := strings.TrimSpace(os.Getenv(EnvSimpleMax)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSimpleMax, err)
		}
		rc.Thresholds.SimpleMax = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvMediumMax)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMediumMax, err)
		}
		rc.Thresholds.MediumMax = n
	}
	if v := os.Getenv(EnvDefaultProvider); v != "" {
		rc.DefaultProvider = NormalizeProvider(v)
	}
	return nil
}

// HasAdapter returns true if the API key for the given provider is configured.
func (c *Config) HasAdapter(name string) bool {
	switch NormalizeProvider(name) {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "deepseek":
		return c.DeepSeekAPIKey != ""
	default:
		return false
	}
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".tiergate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
