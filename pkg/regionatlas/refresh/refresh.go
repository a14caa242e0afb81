// Package refresh runs a collection cycle and persists its result: every
// region is upserted and every provider gets exactly one audit log entry.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/clock"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/collector"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/provider"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper/regions"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/store"
)

// Summary describes one refresh run
type Summary struct {
	RunID             string         `json:"run_id"`
	UpdatedAt         time.Time      `json:"updated_at"`
	RegionsByProvider map[string]int `json:"regions_by_provider"`
	Failed            []string       `json:"failed,omitempty"`
	Total             int            `json:"total"`
}

// Refresher persists the output of a Collector
type Refresher struct {
	collector *collector.Collector
	store     store.Gateway
	clock     clock.Clock
}

// Option configures a Refresher
type Option func(*Refresher)

// WithClock sets the time source for the summary timestamp
func WithClock(clk clock.Clock) Option {
	return func(r *Refresher) {
		r.clock = clk
	}
}

// New creates a refresher writing to gw
func New(c *collector.Collector, gw store.Gateway, opts ...Option) *Refresher {
	r := &Refresher{
		collector: c,
		store:     gw,
		clock:     clock.RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run collects all providers and stores the result. Provider and record
// failures are recorded in the audit log and do not stop the run; the
// returned error reports providers whose audit entry could not be written.
// Cancelling ctx does not interrupt a run, only the values it carries are
// used.
func (r *Refresher) Run(ctx context.Context) (*Summary, error) {
	ctx = context.WithoutCancel(ctx)

	summary := &Summary{
		RunID:             uuid.NewString(),
		RegionsByProvider: make(map[string]int),
	}

	klog.InfoS("Starting region refresh", "runID", summary.RunID, "providers", r.collector.Providers())

	report := r.collector.Collect(ctx)
	countries := make(map[string]bool)

	var errs []error
	for _, res := range report.Results {
		name := string(res.Provider)

		p, err := r.store.GetProviderByName(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				klog.InfoS("Skipping provider missing from the store", "provider", name)
				continue
			}
			klog.ErrorS(err, "Failed to look up provider", "provider", name)
			summary.Failed = append(summary.Failed, name)
			errs = append(errs, fmt.Errorf("provider %s: %w", name, err))
			continue
		}

		entry := store.UpdateLog{ProviderID: p.ID, Status: store.LogStatusSuccess}
		stored := 0

		if res.Err != nil {
			entry.Status = store.LogStatusError
			entry.Message = res.Err.Error()
			summary.Failed = append(summary.Failed, name)
		} else {
			var failed []error
			stored, failed = r.persistRegions(ctx, p.ID, res.Regions, countries)
			entry.Message = fmt.Sprintf("Updated %d regions", stored)
			if len(failed) > 0 {
				entry.Status = store.LogStatusError
				entry.Message = fmt.Sprintf("Updated %d regions, %d failed: %v", stored, len(failed), failed[0])
				summary.Failed = append(summary.Failed, name)
			}
		}

		summary.RegionsByProvider[name] += stored
		summary.Total += stored

		if _, err := r.store.AppendLog(ctx, entry); err != nil {
			klog.ErrorS(err, "Failed to append update log", "provider", name)
			errs = append(errs, fmt.Errorf("provider %s: %w", name, err))
		}
	}

	summary.UpdatedAt = r.clock.Now().UTC()

	klog.InfoS("Region refresh completed",
		"runID", summary.RunID,
		"total", summary.Total,
		"failed", summary.Failed)

	return summary, errors.Join(errs...)
}

// persistRegions upserts each region, continuing past failed records
func (r *Refresher) persistRegions(ctx context.Context, providerID int64, items []provider.NormalizedRegion, countries map[string]bool) (int, []error) {
	stored := 0
	var failed []error

	for _, item := range items {
		if !countries[item.CountryCode] {
			if err := r.ensureCountry(ctx, item.CountryCode, item.Continent); err != nil {
				klog.ErrorS(err, "Failed to add country", "country", item.CountryCode)
			} else {
				countries[item.CountryCode] = true
			}
		}

		_, err := r.store.UpsertZone(ctx, store.AvailabilityZone{
			ProviderID:  providerID,
			RegionID:    item.RegionID,
			RegionName:  item.RegionName,
			CountryCode: item.CountryCode,
			Continent:   string(item.Continent),
			Status:      store.StatusAvailable,
		})
		if err != nil {
			klog.ErrorS(err, "Failed to store region", "provider", item.Provider, "region", item.RegionID)
			failed = append(failed, err)
			continue
		}
		stored++
	}

	return stored, failed
}

// ensureCountry adds a country first seen through a region, using the
// region's bucket so that both rows agree
func (r *Refresher) ensureCountry(ctx context.Context, code string, bucket regionmapper.Bucket) error {
	if !bucket.Valid() {
		bucket = regionmapper.BucketFor(code)
	}
	_, err := r.store.UpsertCountry(ctx, countryRecord(code, bucket))
	return err
}

// RunEvery runs immediately and then on every tick until ctx is done. A
// run that is in progress when ctx ends still completes.
func (r *Refresher) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid refresh interval: %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.Run(ctx); err != nil {
			klog.ErrorS(err, "Region refresh finished with errors")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Bootstrap seeds the provider catalog and the country catalog. It is safe
// to call on every start.
func Bootstrap(ctx context.Context, gw store.Gateway) error {
	for _, info := range provider.Catalog {
		id, err := gw.UpsertProvider(ctx, store.Provider{
			Name:        string(info.Name),
			DisplayName: info.DisplayName,
			Color:       info.Color,
			APIEndpoint: info.APIEndpoint,
		})
		if err != nil {
			return fmt.Errorf("failed to seed provider %s: %w", info.Name, err)
		}
		klog.V(2).InfoS("Seeded provider", "provider", info.Name, "id", id)
	}

	for code := range regions.CountryNames {
		if _, err := gw.UpsertCountry(ctx, countryRecord(code, regionmapper.BucketFor(code))); err != nil {
			return fmt.Errorf("failed to seed country %s: %w", code, err)
		}
	}

	klog.InfoS("Store bootstrapped",
		"providers", len(provider.Catalog),
		"countries", len(regions.CountryNames))
	return nil
}

func countryRecord(code string, bucket regionmapper.Bucket) store.Country {
	name, ok := regions.CountryNames[code]
	if !ok {
		name = code
	}
	return store.Country{
		Code:      code,
		Name:      name,
		Continent: string(bucket),
	}
}
