package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Config holds the application configuration.
type Config struct {
	APIKeys   map[task.Provider]string
	Registry  *RegistryConfig
	ConfigDir string
}

// FileConfig represents the structure of ~/.taskgate/config.yaml
type FileConfig struct {
	APIKeys APIKeysConfig `yaml:"api_keys"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	OpenAI      string `yaml:"openai"`
	Anthropic   string `yaml:"anthropic"`
	Cohere      string `yaml:"cohere"`
	HuggingFace string `yaml:"huggingface"`
	Mistral     string `yaml:"mistral"`
	Gemini      string `yaml:"gemini"`
	Grok        string `yaml:"grok"`
}

var keyEnvVars = map[task.Provider]string{
	task.OpenAI:      "OPENAI_API_KEY",
	task.Anthropic:   "ANTHROPIC_API_KEY",
	task.Cohere:      "COHERE_API_KEY",
	task.HuggingFace: "HUGGINGFACE_API_KEY",
	task.Mistral:     "MISTRAL_API_KEY",
	task.Gemini:      "GEMINI_API_KEY",
	task.Grok:        "GROK_API_KEY",
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		APIKeys: map[task.Provider]string{
			task.OpenAI:      getEnvOrDefault(keyEnvVars[task.OpenAI], fileConfig.APIKeys.OpenAI),
			task.Anthropic:   getEnvOrDefault(keyEnvVars[task.Anthropic], fileConfig.APIKeys.Anthropic),
			task.Cohere:      getEnvOrDefault(keyEnvVars[task.Cohere], fileConfig.APIKeys.Cohere),
			task.HuggingFace: getEnvOrDefault(keyEnvVars[task.HuggingFace], fileConfig.APIKeys.HuggingFace),
			task.Mistral:     getEnvOrDefault(keyEnvVars[task.Mistral], fileConfig.APIKeys.Mistral),
			task.Gemini:      getEnvOrDefault(keyEnvVars[task.Gemini], fileConfig.APIKeys.Gemini),
			task.Grok:        getEnvOrDefault(keyEnvVars[task.Grok], fileConfig.APIKeys.Grok),
		},
		ConfigDir: configDir,
	}

	registryPath := filepath.Join(configDir, "registry.yaml")
	if _, err := os.Stat(registryPath); err == nil {
		registry, err := LoadRegistryConfig(registryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load registry config: %w", err)
		}
		cfg.Registry = registry
	} else {
		cfg.Registry = DefaultRegistryConfig()
	}

	return cfg, nil
}

// HasProvider returns true if the API key for the given provider is
// configured.
func (c *Config) HasProvider(provider task.Provider) bool {
	return c.APIKeys[provider] != ""
}

// AvailableProviders returns the providers with configured keys, in
// registry order.
func (c *Config) AvailableProviders() []task.Provider {
	var providers []task.Provider
	for _, provider := range task.Providers() {
		if c.HasProvider(provider) {
			providers = append(providers, provider)
		}
	}
	return providers
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
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
	configDir := filepath.Join(home, ".taskgate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
