// Package store persists providers, countries, availability zones and the
// refresh audit log.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that match no row
var ErrNotFound = errors.New("not found")

// Gateway is the persistence interface used by the refresh loop and the CLI
type Gateway interface {
	// UpsertProvider inserts the provider if its name is new and returns its id
	UpsertProvider(ctx context.Context, p Provider) (int64, error)

	// UpsertCountry inserts the country if its code is new and returns its id
	UpsertCountry(ctx context.Context, c Country) (int64, error)

	// UpsertZone inserts or refreshes the zone keyed by (provider, region)
	// and returns the row id
	UpsertZone(ctx context.Context, z AvailabilityZone) (int64, error)

	// AppendLog always adds a new audit row
	AppendLog(ctx context.Context, l UpdateLog) (int64, error)

	GetProvider(ctx context.Context, id int64) (*Provider, error)
	GetProviderByName(ctx context.Context, name string) (*Provider, error)
	ListProviders(ctx context.Context) ([]Provider, error)
	ProviderColors(ctx context.Context) (map[string]string, error)

	GetCountry(ctx context.Context, code string) (*Country, error)
	CountriesByProvider(ctx context.Context, provider string) ([]string, error)
	CountriesWithProviders(ctx context.Context, continent string) ([]CountryCoverage, error)

	GetZone(ctx context.Context, id int64) (*AvailabilityZone, error)
	ListZones(ctx context.Context, providers ...string) ([]RegionView, error)

	GetUpdateLog(ctx context.Context, id int64) (*UpdateLog, error)
	RecentLogs(ctx context.Context, limit int) ([]UpdateLog, error)

	Stats(ctx context.Context) (*Stats, error)

	Close() error
}
