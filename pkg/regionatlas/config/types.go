package config

import (
	"fmt"
	"time"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/provider"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

// Config holds the runtime configuration, read from the environment
type Config struct {
	LinodeToken           string `envconfig:"LINODE_API_TOKEN"`
	DigitalOceanToken     string `envconfig:"DIGITALOCEAN_API_TOKEN"`
	AliyunAccessKeyID     string `envconfig:"ALIYUN_ACCESS_KEY_ID"`
	AliyunAccessKeySecret string `envconfig:"ALIYUN_ACCESS_KEY_SECRET"`
	TencentSecretID       string `envconfig:"TENCENT_SECRET_ID"`
	TencentSecretKey      string `envconfig:"TENCENT_SECRET_KEY"`

	DatabasePath string `envconfig:"DATABASE_URL" default:"database/cloud_az.db"`

	// HTTPTimeout bounds each provider call independently
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// ProviderMaxAttempts of one disables retries
	ProviderMaxAttempts uint `envconfig:"PROVIDER_MAX_ATTEMPTS" default:"1"`

	// RefreshInterval of zero means a single run
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0s"`

	RegionOverridesPath string `envconfig:"REGION_OVERRIDES_PATH"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"false"`
	MetricsPort    int  `envconfig:"METRICS_PORT" default:"9090"`

	// RegionOverrides is loaded from RegionOverridesPath
	RegionOverrides *regionmapper.Config `ignored:"true"`
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}

	if c.ProviderMaxAttempts == 0 {
		return fmt.Errorf("provider max attempts must be at least 1")
	}

	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must not be negative")
	}

	if c.MetricsEnabled && (c.MetricsPort <= 0 || c.MetricsPort > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.MetricsPort)
	}

	if c.RegionOverrides != nil {
		for i, o := range c.RegionOverrides.RegionOverrides {
			if o.Provider == "" || o.Region == "" || o.CountryCode == "" {
				return fmt.Errorf("region override at index %d needs provider, region and countryCode", i)
			}
		}
	}

	return nil
}

// Credentials returns the provider secrets
func (c *Config) Credentials() provider.Credentials {
	return provider.Credentials{
		LinodeToken:       c.LinodeToken,
		DigitalOceanToken: c.DigitalOceanToken,
		AliyunKeyID:       c.AliyunAccessKeyID,
		AliyunKeySecret:   c.AliyunAccessKeySecret,
		TencentSecretID:   c.TencentSecretID,
		TencentSecretKey:  c.TencentSecretKey,
	}
}

// MissingCredentials lists providers that have no credentials configured
func (c *Config) MissingCredentials() []regionmapper.Provider {
	var missing []regionmapper.Provider
	if c.LinodeToken == "" {
		missing = append(missing, regionmapper.ProviderLinode)
	}
	if c.DigitalOceanToken == "" {
		missing = append(missing, regionmapper.ProviderDigitalOcean)
	}
	if c.AliyunAccessKeyID == "" || c.AliyunAccessKeySecret == "" {
		missing = append(missing, regionmapper.ProviderAliyun)
	}
	if c.TencentSecretID == "" || c.TencentSecretKey == "" {
		missing = append(missing, regionmapper.ProviderTencent)
	}
	return missing
}

// NewRegionMapper builds the classifier with any configured overrides
func (c *Config) NewRegionMapper() *regionmapper.RegionMapper {
	if c.RegionOverrides == nil {
		return regionmapper.NewRegionMapper()
	}
	return regionmapper.NewRegionMapperWithConfig(c.RegionOverrides)
}
