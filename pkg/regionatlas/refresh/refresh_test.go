package refresh

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/clock"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/collector"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/provider"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper/regions"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/store"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	name    regionmapper.Provider
	regions []provider.NormalizedRegion
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeClient) Provider() regionmapper.Provider { return f.name }

func (f *fakeClient) Fetch(ctx context.Context) ([]provider.NormalizedRegion, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.regions, f.err
}

// failingStore rejects upserts of one region and lookups of one provider
type failingStore struct {
	store.Gateway
	failRegion   string
	failProvider string
}

func (f *failingStore) GetProviderByName(ctx context.Context, name string) (*store.Provider, error) {
	if name == f.failProvider {
		return nil, errors.New("database is locked")
	}
	return f.Gateway.GetProviderByName(ctx, name)
}

func (f *failingStore) UpsertZone(ctx context.Context, z store.AvailabilityZone) (int64, error) {
	if z.RegionID == f.failRegion {
		return 0, errors.New("disk I/O error")
	}
	return f.Gateway.UpsertZone(ctx, z)
}

func normalized(p regionmapper.Provider, id, name string) provider.NormalizedRegion {
	mapper := regionmapper.NewRegionMapper()
	cls := mapper.Classify(p, id)
	return provider.NormalizedRegion{
		Provider:    p,
		RegionID:    id,
		RegionName:  name,
		CountryCode: cls.CountryCode,
		Continent:   cls.Bucket,
		Mapped:      cls.Mapped,
	}
}

func newTestStore(t *testing.T) (*store.SQLiteStore, *clock.MockClock) {
	t.Helper()

	clk := clock.NewMockClock(baseTime)
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "cloud_az.db"), store.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, Bootstrap(context.Background(), s))
	return s, clk
}

func logsByProvider(t *testing.T, s *store.SQLiteStore) map[string][]store.UpdateLog {
	t.Helper()
	ctx := context.Background()

	logs, err := s.RecentLogs(ctx, 100)
	require.NoError(t, err)

	out := make(map[string][]store.UpdateLog)
	for _, l := range logs {
		p, err := s.GetProvider(ctx, l.ProviderID)
		require.NoError(t, err)
		out[p.Name] = append(out[p.Name], l)
	}
	return out
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, Bootstrap(ctx, s))

	providers, err := s.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, providers, len(provider.Catalog))

	coverage, err := s.CountriesWithProviders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, coverage, len(regions.CountryNames))

	colors, err := s.ProviderColors(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#ff8c00", colors["aliyun"])
}

func TestRunPersistsAndLogsEveryProvider(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderLinode, "us-east", "Newark, NJ"),
		normalized(regionmapper.ProviderLinode, "eu-west", "London, UK"),
	}}
	do := &fakeClient{name: regionmapper.ProviderDigitalOcean, err: errors.New("unexpected status code: 401")}
	aliyun := &fakeClient{name: regionmapper.ProviderAliyun, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderAliyun, "zz-unknown", "Unknown"),
	}}
	tencent := &fakeClient{name: regionmapper.ProviderTencent, regions: []provider.NormalizedRegion{}}

	r := New(collector.New(linode, do, aliyun, tencent), s)
	summary, err := r.Run(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, map[string]int{"linode": 2, "digitalocean": 0, "aliyun": 1, "tencent": 0}, summary.RegionsByProvider)
	assert.Equal(t, []string{"digitalocean"}, summary.Failed)

	zones, err := s.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 3)
	assert.Equal(t, "aliyun", zones[0].Provider)
	assert.Equal(t, "CN", zones[0].CountryCode)
	assert.Equal(t, "apac", zones[0].Continent)

	logs := logsByProvider(t, s)
	require.Len(t, logs, 4)
	for name, entries := range logs {
		assert.Len(t, entries, 1, "provider %s", name)
	}
	assert.Equal(t, store.LogStatusSuccess, logs["linode"][0].Status)
	assert.Equal(t, "Updated 2 regions", logs["linode"][0].Message)
	assert.Equal(t, store.LogStatusError, logs["digitalocean"][0].Status)
	assert.Contains(t, logs["digitalocean"][0].Message, "401")
	assert.Equal(t, "Updated 0 regions", logs["tencent"][0].Message)
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestStore(t)

	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderLinode, "us-east", "Newark, NJ"),
	}}
	r := New(collector.New(linode), s, WithClock(clk))

	_, err := r.Run(ctx)
	require.NoError(t, err)
	first, err := s.ListZones(ctx)
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	second, err := r.Run(ctx)
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.Equal(baseTime.Add(10*time.Minute)))

	zones, err := s.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.True(t, zones[0].LastUpdated.After(first[0].LastUpdated))

	assert.Len(t, logsByProvider(t, s)["linode"], 2)
}

func TestRunToleratesRecordFailures(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderLinode, "us-east", "Newark, NJ"),
		normalized(regionmapper.ProviderLinode, "us-west", "Fremont, CA"),
		normalized(regionmapper.ProviderLinode, "eu-west", "London, UK"),
	}}

	r := New(collector.New(linode), &failingStore{Gateway: s, failRegion: "us-west"})
	summary, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, []string{"linode"}, summary.Failed)

	zones, err := s.ListZones(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 2)

	logs := logsByProvider(t, s)["linode"]
	require.Len(t, logs, 1)
	assert.Equal(t, store.LogStatusError, logs[0].Status)
	assert.Contains(t, logs[0].Message, "disk I/O error")
}

func TestRunSkipsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	aws := &fakeClient{name: "aws", regions: []provider.NormalizedRegion{
		{Provider: "aws", RegionID: "us-east-1", CountryCode: "US", Continent: regionmapper.BucketAmericas},
	}}

	summary, err := New(collector.New(aws), s).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)

	logs, err := s.RecentLogs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRunAddsUnknownCountries(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		{Provider: regionmapper.ProviderLinode, RegionID: "no-osl", RegionName: "Oslo", CountryCode: "NO", Continent: regionmapper.BucketEuropeAfrica},
	}}

	_, err := New(collector.New(linode), s).Run(ctx)
	require.NoError(t, err)

	c, err := s.GetCountry(ctx, "NO")
	require.NoError(t, err)
	assert.Equal(t, "NO", c.Name)
	assert.Equal(t, "europe-africa", c.Continent)

	codes, err := s.CountriesByProvider(ctx, "linode")
	require.NoError(t, err)
	assert.Equal(t, []string{"NO"}, codes)
}

func TestRunEvery(t *testing.T) {
	s, _ := newTestStore(t)
	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderLinode, "us-east", "Newark, NJ"),
	}}
	r := New(collector.New(linode), s)

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	err := r.RunEvery(ctx, 50*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, linode.calls.Load(), int32(2))

	assert.Error(t, r.RunEvery(context.Background(), 0))
}

func TestRunCompletesAfterCancel(t *testing.T) {
	s, _ := newTestStore(t)

	linode := &fakeClient{name: regionmapper.ProviderLinode, delay: 200 * time.Millisecond, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderLinode, "us-east", "Newark, NJ"),
	}}
	tencent := &fakeClient{name: regionmapper.ProviderTencent, delay: 200 * time.Millisecond, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderTencent, "ap-tokyo", "Tokyo"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	defer cancel()

	summary, err := New(collector.New(linode, tencent), s).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Empty(t, summary.Failed)

	logs := logsByProvider(t, s)
	require.Len(t, logs, 2)
	for name, entries := range logs {
		require.Len(t, entries, 1, "provider %s", name)
		assert.Equal(t, store.LogStatusSuccess, entries[0].Status, "provider %s", name)
	}
}

func TestRunReportsProviderLookupErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	gw := &failingStore{Gateway: s, failProvider: "tencent"}

	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderLinode, "us-east", "Newark, NJ"),
	}}
	tencent := &fakeClient{name: regionmapper.ProviderTencent, regions: []provider.NormalizedRegion{
		normalized(regionmapper.ProviderTencent, "ap-tokyo", "Tokyo"),
	}}

	summary, err := New(collector.New(linode, tencent), gw).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tencent")
	assert.Equal(t, []string{"tencent"}, summary.Failed)
	assert.Equal(t, 1, summary.Total)

	logs := logsByProvider(t, s)
	assert.Len(t, logs["linode"], 1)
	assert.Empty(t, logs["tencent"])
}

func TestRunUsesRegionBucketForNewCountries(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// IS and XQ are not in the country catalog, SE is seeded by Bootstrap
	linode := &fakeClient{name: regionmapper.ProviderLinode, regions: []provider.NormalizedRegion{
		{Provider: regionmapper.ProviderLinode, RegionID: "is-rey", RegionName: "Reykjavik", CountryCode: "IS", Continent: regionmapper.BucketEuropeAfrica},
		{Provider: regionmapper.ProviderLinode, RegionID: "xx-1", RegionName: "Unpinned", CountryCode: "XQ"},
	}}

	_, err := New(collector.New(linode), s).Run(ctx)
	require.NoError(t, err)

	pinned, err := s.GetCountry(ctx, "IS")
	require.NoError(t, err)
	assert.Equal(t, "europe-africa", pinned.Continent)

	unpinned, err := s.GetCountry(ctx, "XQ")
	require.NoError(t, err)
	assert.Equal(t, "apac", unpinned.Continent)

	seeded, err := s.GetCountry(ctx, "SE")
	require.NoError(t, err)
	assert.Equal(t, "apac", seeded.Continent)
}
