// Package regions holds the static region catalogs of every supported
// provider. The maps are copied into a RegionMapper at construction time and
// must not be modified afterwards.
package regions

// RegionInfo contains metadata about a provider region
type RegionInfo struct {
	// RegionID is the provider-native region identifier
	RegionID string

	// CountryCode is the ISO-3166 alpha-2 code of the hosting country
	CountryCode string

	// DisplayName is a human readable location label
	DisplayName string

	// Continent optionally pins the continent bucket instead of deriving it
	// from CountryCode
	Continent string
}

func region(id, country, name string) RegionInfo {
	return RegionInfo{RegionID: id, CountryCode: country, DisplayName: name}
}
