package store

import (
	"time"
)

const (
	// StatusAvailable marks a zone that was seen in the latest fetch
	StatusAvailable = "available"

	LogStatusSuccess = "success"
	LogStatusError   = "error"
)

// Provider is a persisted cloud provider
type Provider struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	APIEndpoint string    `json:"api_endpoint,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Country is an entry of the country catalog
type Country struct {
	ID        int64     `json:"id"`
	Code      string    `json:"country_code"`
	Name      string    `json:"country_name"`
	Continent string    `json:"continent"`
	CreatedAt time.Time `json:"created_at"`
}

// AvailabilityZone is one provider region. (ProviderID, RegionID) is unique.
type AvailabilityZone struct {
	ID          int64     `json:"id"`
	ProviderID  int64     `json:"provider_id"`
	RegionID    string    `json:"region_id"`
	RegionName  string    `json:"region_name"`
	CountryCode string    `json:"country_code"`
	Continent   string    `json:"continent"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// UpdateLog records the outcome of one provider refresh
type UpdateLog struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	UpdateTime time.Time `json:"update_time"`
}

// RegionView is an available zone joined with its provider name
type RegionView struct {
	RegionID    string    `json:"region_id"`
	RegionName  string    `json:"region_name"`
	Provider    string    `json:"provider"`
	CountryCode string    `json:"country_code"`
	Continent   string    `json:"continent"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// CountryCoverage lists the providers with an available zone in a country
type CountryCoverage struct {
	Code      string   `json:"country_code"`
	Name      string   `json:"country_name"`
	Continent string   `json:"continent"`
	Providers []string `json:"providers"`
}

// Stats summarizes the available zones
type Stats struct {
	TotalRegions       int            `json:"total_regions"`
	TotalCountries     int            `json:"total_countries"`
	TotalProviders     int            `json:"total_providers"`
	RegionsByProvider  map[string]int `json:"regions_by_provider"`
	RegionsByContinent map[string]int `json:"regions_by_continent"`
}
