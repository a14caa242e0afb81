// Package collector queries every configured provider concurrently. A
// provider that fails, times out or panics contributes an empty list and
// never affects the others.
package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/clock"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/provider"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

// Result is the outcome of one provider fetch
type Result struct {
	Provider regionmapper.Provider
	Regions  []provider.NormalizedRegion
	Err      error
	Duration time.Duration
}

// Report holds one Result per provider, in client order
type Report struct {
	Results []Result
}

// Collector fans out to a fixed set of provider clients
type Collector struct {
	clients []provider.Client
	clock   clock.Clock
}

// New creates a collector over clients
func New(clients ...provider.Client) *Collector {
	return &Collector{
		clients: clients,
		clock:   clock.RealClock{},
	}
}

// WithClock replaces the time source used for durations
func (c *Collector) WithClock(clk clock.Clock) *Collector {
	c.clock = clk
	return c
}

// Providers returns the providers of the configured clients
func (c *Collector) Providers() []regionmapper.Provider {
	providers := make([]regionmapper.Provider, 0, len(c.clients))
	for _, client := range c.clients {
		providers = append(providers, client.Provider())
	}
	return providers
}

// Collect fetches every provider concurrently and waits for all of them
func (c *Collector) Collect(ctx context.Context) *Report {
	results := make([]Result, len(c.clients))

	// Tasks never return an error so one failure cannot cancel the group
	var g errgroup.Group
	for i, client := range c.clients {
		g.Go(func() error {
			results[i] = c.fetch(ctx, client)
			return nil
		})
	}
	_ = g.Wait()

	return &Report{Results: results}
}

// CollectAll returns the available regions keyed by provider. Failed
// providers map to an empty list.
func (c *Collector) CollectAll(ctx context.Context) map[regionmapper.Provider][]provider.NormalizedRegion {
	return c.Collect(ctx).Regions()
}

func (c *Collector) fetch(ctx context.Context, client provider.Client) (result Result) {
	name := client.Provider()
	start := c.clock.Now()
	result = Result{Provider: name, Regions: []provider.NormalizedRegion{}}

	defer func() {
		if r := recover(); r != nil {
			result.Regions = []provider.NormalizedRegion{}
			result.Err = fmt.Errorf("provider %s panicked: %v", name, r)
		}

		result.Duration = c.clock.Since(start)
		FetchDuration.WithLabelValues(string(name)).Observe(result.Duration.Seconds())

		if result.Err != nil {
			FetchErrors.WithLabelValues(string(name)).Inc()
			ProviderRegions.WithLabelValues(string(name)).Set(0)
			klog.ErrorS(result.Err, "Provider fetch failed", "provider", name, "duration", result.Duration)
			return
		}

		ProviderRegions.WithLabelValues(string(name)).Set(float64(len(result.Regions)))
		klog.V(2).InfoS("Provider fetch completed",
			"provider", name,
			"regions", len(result.Regions),
			"duration", result.Duration)
	}()

	regions, err := client.Fetch(ctx)
	if err != nil {
		result.Err = err
		return result
	}
	if regions != nil {
		result.Regions = regions
	}
	return result
}

// Regions flattens the report into a provider keyed map. Every provider
// has an entry; clients sharing a provider have their lists concatenated.
func (r *Report) Regions() map[regionmapper.Provider][]provider.NormalizedRegion {
	out := make(map[regionmapper.Provider][]provider.NormalizedRegion, len(r.Results))
	for _, res := range r.Results {
		if existing, ok := out[res.Provider]; ok {
			out[res.Provider] = append(existing, res.Regions...)
			continue
		}
		out[res.Provider] = res.Regions
	}
	return out
}

// Failed returns the providers whose fetch failed, sorted by name
func (r *Report) Failed() []regionmapper.Provider {
	var failed []regionmapper.Provider
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res.Provider)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return failed
}

// Total is the number of regions across all providers
func (r *Report) Total() int {
	total := 0
	for _, res := range r.Results {
		total += len(res.Regions)
	}
	return total
}
