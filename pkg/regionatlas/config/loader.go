package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.RegionOverridesPath != "" {
		overrides, err := LoadRegionOverrides(cfg.RegionOverridesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load region overrides: %w", err)
		}
		cfg.RegionOverrides = overrides
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	for _, p := range cfg.MissingCredentials() {
		klog.InfoS("Provider credentials not configured, its fetch will fail", "provider", p)
	}

	return cfg, nil
}

// LoadRegionOverrides reads a YAML file of region overrides
func LoadRegionOverrides(path string) (*regionmapper.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region overrides file: %w", err)
	}

	overrides := &regionmapper.Config{}
	if err := yaml.Unmarshal(data, overrides); err != nil {
		return nil, fmt.Errorf("failed to parse region overrides: %w", err)
	}

	klog.V(2).InfoS("Loaded region overrides", "path", path, "count", len(overrides.RegionOverrides))
	return overrides, nil
}
