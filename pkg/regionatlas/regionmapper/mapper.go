package regionmapper

import (
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper/regions"
)

// RegionMapper provides region to country and country to continent mapping
type RegionMapper struct {
	// Maps provider region IDs to region info, one table per provider
	regionMaps map[Provider]map[string]RegionInfo
}

// NewRegionMapper creates a new mapper with the built-in tables
func NewRegionMapper() *RegionMapper {
	mapper := &RegionMapper{
		regionMaps: make(map[Provider]map[string]RegionInfo),
	}

	mapper.initDefaultMappings()

	return mapper
}

// NewRegionMapperWithConfig creates a new mapper and applies the overrides in config
func NewRegionMapperWithConfig(config *Config) *RegionMapper {
	mapper := NewRegionMapper()

	if config != nil {
		mapper.applyRegionOverrides(config.RegionOverrides)
	}

	return mapper
}

// initDefaultMappings initializes the mapper with the built-in region tables
func (m *RegionMapper) initDefaultMappings() {
	m.regionMaps[ProviderLinode] = convertRegionMap(ProviderLinode, regions.LinodeRegionInfo)
	m.regionMaps[ProviderDigitalOcean] = convertRegionMap(ProviderDigitalOcean, regions.DigitalOceanRegionInfo)
	m.regionMaps[ProviderAliyun] = convertRegionMap(ProviderAliyun, regions.AliyunRegionInfo)
	m.regionMaps[ProviderTencent] = convertRegionMap(ProviderTencent, regions.TencentRegionInfo)

	klog.V(2).InfoS("Region mapper initialized",
		"linodeRegions", len(m.regionMaps[ProviderLinode]),
		"digitaloceanRegions", len(m.regionMaps[ProviderDigitalOcean]),
		"aliyunRegions", len(m.regionMaps[ProviderAliyun]),
		"tencentRegions", len(m.regionMaps[ProviderTencent]))
}

// convertRegionMap copies a catalog from the regions package into our internal format
func convertRegionMap(provider Provider, sourceMap map[string]regions.RegionInfo) map[string]RegionInfo {
	result := make(map[string]RegionInfo, len(sourceMap))

	for k, v := range sourceMap {
		result[k] = RegionInfo{
			Provider:    provider,
			RegionID:    v.RegionID,
			CountryCode: v.CountryCode,
			DisplayName: v.DisplayName,
			Continent:   Bucket(v.Continent),
		}
	}

	return result
}

// applyRegionOverrides applies custom region mappings from configuration
func (m *RegionMapper) applyRegionOverrides(overrides []RegionOverride) {
	for _, override := range overrides {
		provider := Provider(strings.ToLower(override.Provider))

		table, ok := m.regionMaps[provider]
		if !ok {
			klog.V(2).InfoS("Unknown provider in region override",
				"provider", provider,
				"region", override.Region)
			continue
		}
		if override.Region == "" || override.CountryCode == "" {
			klog.V(2).InfoS("Ignoring incomplete region override",
				"provider", provider,
				"region", override.Region)
			continue
		}

		table[override.Region] = RegionInfo{
			Provider:    provider,
			RegionID:    override.Region,
			CountryCode: strings.ToUpper(override.CountryCode),
			DisplayName: override.DisplayName,
			Continent:   Bucket(strings.ToLower(override.Continent)),
		}

		klog.V(2).InfoS("Applied region override",
			"provider", provider,
			"region", override.Region,
			"countryCode", override.CountryCode)
	}
}

// Providers returns the providers that have a region table, alphabetically ordered
func (m *RegionMapper) Providers() []Provider {
	providers := make([]Provider, 0, len(m.regionMaps))
	for p := range m.regionMaps {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// GetRegionInfo returns the table entry for a provider and region
func (m *RegionMapper) GetRegionInfo(provider Provider, region string) (*RegionInfo, bool) {
	table, ok := m.regionMaps[Provider(strings.ToLower(string(provider)))]
	if !ok {
		return nil, false
	}

	info, found := table[region]
	if !found {
		return nil, false
	}

	result := info // Copy so callers cannot modify the table
	return &result, true
}

// Lookup returns the country code for a region and whether it came from the
// table. On a miss the provider family default is returned with false.
func (m *RegionMapper) Lookup(provider Provider, region string) (string, bool) {
	if info, found := m.GetRegionInfo(provider, region); found {
		return info.CountryCode, true
	}
	return DefaultCountryCode(provider), false
}

// GetCountryCode returns the country code for a provider region. It never
// fails: unmapped regions resolve to the provider family default.
func (m *RegionMapper) GetCountryCode(provider Provider, region string) string {
	code, _ := m.Lookup(provider, region)
	return code
}

// Classify resolves the country code and collector-facing bucket of a region
func (m *RegionMapper) Classify(provider Provider, region string) Classification {
	info, found := m.GetRegionInfo(provider, region)
	if !found {
		code := DefaultCountryCode(provider)
		klog.V(3).InfoS("No region mapping, using provider default",
			"provider", provider,
			"region", region,
			"countryCode", code)
		return Classification{CountryCode: code, Bucket: BucketFor(code)}
	}

	bucket := info.Continent
	if !bucket.Valid() {
		bucket = BucketFor(info.CountryCode)
	}
	return Classification{CountryCode: info.CountryCode, Bucket: bucket, Mapped: true}
}

// GetAllRegions returns a copy of the region table of a provider
func (m *RegionMapper) GetAllRegions(provider Provider) map[string]RegionInfo {
	table := m.regionMaps[Provider(strings.ToLower(string(provider)))]
	result := make(map[string]RegionInfo, len(table))
	for k, v := range table {
		result[k] = v
	}
	return result
}

// ValidateMapping reports whether a region has a table entry
func (m *RegionMapper) ValidateMapping(provider Provider, region string) bool {
	_, found := m.GetRegionInfo(provider, region)
	return found
}

// IsChinaHeadquartered reports whether a provider belongs to the China
// headquartered family, whose unmapped regions default to CN
func IsChinaHeadquartered(provider Provider) bool {
	switch Provider(strings.ToLower(string(provider))) {
	case ProviderAliyun, ProviderTencent:
		return true
	default:
		return false
	}
}

// DefaultCountryCode returns the fallback country of a provider family
func DefaultCountryCode(provider Provider) string {
	if IsChinaHeadquartered(provider) {
		return DefaultCountryChina
	}
	return DefaultCountryInternational
}
