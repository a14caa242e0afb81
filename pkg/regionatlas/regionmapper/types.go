// Package regionmapper maps provider regions to the country that hosts them
// and countries to continent buckets. A RegionMapper is built once at startup
// and is read-only afterwards, so it can be shared by concurrent fetches.
package regionmapper

// Provider identifies one cloud vendor whose region catalog is collected
type Provider string

// Known providers
const (
	ProviderLinode       Provider = "linode"
	ProviderDigitalOcean Provider = "digitalocean"
	ProviderAliyun       Provider = "aliyun"
	ProviderTencent      Provider = "tencent"
)

// Default country codes used when a region has no mapping
const (
	DefaultCountryChina         = "CN"
	DefaultCountryInternational = "US"
)

// RegionInfo contains metadata about a provider region
type RegionInfo struct {
	// Provider is the provider that owns the region
	Provider Provider

	// RegionID is the provider-native region identifier
	RegionID string

	// CountryCode is the ISO-3166 alpha-2 code of the hosting country
	CountryCode string

	// DisplayName is a human readable location label
	DisplayName string

	// Continent pins the collector-facing bucket when set; otherwise the
	// bucket is derived from CountryCode
	Continent Bucket
}

// Classification is the result of classifying one provider region
type Classification struct {
	CountryCode string
	Bucket      Bucket

	// Mapped is false when CountryCode is the provider family default
	// rather than a table entry
	Mapped bool
}

// Config contains configuration for the region mapper
type Config struct {
	// RegionOverrides adds or replaces table entries
	RegionOverrides []RegionOverride `yaml:"regionOverrides"`
}

// RegionOverride defines a custom mapping for a specific provider region
type RegionOverride struct {
	// Provider is the provider name (linode, digitalocean, aliyun, tencent)
	Provider string `yaml:"provider"`

	// Region is the provider region identifier
	Region string `yaml:"region"`

	// CountryCode is the ISO-3166 alpha-2 code to use
	CountryCode string `yaml:"countryCode"`

	// DisplayName is the location label to use
	DisplayName string `yaml:"displayName"`

	// Continent optionally pins the bucket (americas, europe-africa, apac)
	Continent string `yaml:"continent"`
}
