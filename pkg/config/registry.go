package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/taskgate/pkg/selector"
	"github.com/zen-systems/taskgate/pkg/task"
)

// RegistryConfig holds the task registry tables and the selector's context
// adjustment rules. The numeric tables are tuning data, loadable per
// deployment.
type RegistryConfig struct {
	Capabilities map[task.Provider]map[task.Type]int `yaml:"capabilities,omitempty"`
	Defaults     map[task.Type]task.Provider         `yaml:"defaults,omitempty"`
	Fallbacks    map[task.Provider][]task.Provider   `yaml:"fallbacks,omitempty"`
	Groups       map[task.Type][]string              `yaml:"groups,omitempty"`
	Strengths    map[task.Provider]map[string]int    `yaml:"strengths,omitempty"`
	Adjustments  []selector.AdjustmentRule           `yaml:"adjustments,omitempty"`
}

// LoadRegistryConfig reads registry configuration from a YAML file.
// Omitted sections fall back to the built-in tables.
func LoadRegistryConfig(path string) (*RegistryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyRegistryDefaults(&cfg)
	return &cfg, nil
}

// DefaultRegistryConfig returns the built-in registry configuration.
func DefaultRegistryConfig() *RegistryConfig {
	cfg := &RegistryConfig{}
	applyRegistryDefaults(cfg)
	return cfg
}

// Tables converts the config into registry tables.
func (c *RegistryConfig) Tables() task.Tables {
	return task.Tables{
		Capabilities: c.Capabilities,
		Defaults:     c.Defaults,
		Fallbacks:    c.Fallbacks,
		Groups:       c.Groups,
		Strengths:    c.Strengths,
	}
}

// BuildRegistry validates the config and constructs the registry.
func (c *RegistryConfig) BuildRegistry() (*task.Registry, error) {
	registry, err := task.NewRegistry(c.Tables())
	if err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}
	return registry, nil
}

func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg == nil {
		return
	}
	defaults := task.DefaultTables()
	if cfg.Capabilities == nil {
		cfg.Capabilities = defaults.Capabilities
	}
	if cfg.Defaults == nil {
		cfg.Defaults = defaults.Defaults
	}
	if cfg.Fallbacks == nil {
		cfg.Fallbacks = defaults.Fallbacks
	}
	if cfg.Groups == nil {
		cfg.Groups = defaults.Groups
	}
	if cfg.Strengths == nil {
		cfg.Strengths = defaults.Strengths
	}
	if cfg.Adjustments == nil {
		cfg.Adjustments = selector.DefaultAdjustmentRules()
	}
}
