// Package provider fetches region catalogs from cloud provider APIs. Every
// provider shares one RegionClient; the providers differ only in the
// Strategy that builds the authenticated request and parses the response.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/clock"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

// DefaultTimeout bounds a single provider HTTP call
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 10 << 20

var (
	ErrUnexpectedStatus   = errors.New("unexpected status code")
	ErrMissingCredentials = errors.New("missing provider credentials")
)

// NormalizedRegion is one available region with its country and continent
// bucket resolved
type NormalizedRegion struct {
	Provider    regionmapper.Provider `json:"provider"`
	RegionID    string                `json:"region_id"`
	RegionName  string                `json:"region_name"`
	CountryCode string                `json:"country_code"`
	Continent   regionmapper.Bucket   `json:"continent"`

	// Mapped is false when CountryCode is the provider default
	Mapped bool `json:"mapped"`
}

// RawRegion is a provider-native region entry, discarded after normalization
type RawRegion struct {
	ID        string
	Name      string
	Available bool
}

// Client fetches the current region list of one provider
type Client interface {
	Provider() regionmapper.Provider
	Fetch(ctx context.Context) ([]NormalizedRegion, error)
}

// Strategy holds everything that differs between providers: how the request
// is authenticated and how the response is decoded
type Strategy interface {
	Provider() regionmapper.Provider

	// NewRequest builds the signed request. now is the only time input so
	// that signatures are reproducible.
	NewRequest(ctx context.Context, now time.Time) (*http.Request, error)

	// ParseRegions decodes a successful response body
	ParseRegions(body []byte) ([]RawRegion, error)
}

// HTTPClient interface allows mocking http.Client in tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RegionClient runs a Strategy against the network and classifies the result
type RegionClient struct {
	strategy    Strategy
	mapper      *regionmapper.RegionMapper
	httpClient  HTTPClient
	clock       clock.Clock
	timeout     time.Duration
	maxAttempts uint
	backOff     func() backoff.BackOff
}

// Option allows customizing the client
type Option func(*RegionClient)

// WithHTTPClient allows injecting a custom HTTP client
func WithHTTPClient(client HTTPClient) Option {
	return func(c *RegionClient) {
		c.httpClient = client
	}
}

// WithClock sets the time source used for signatures
func WithClock(clk clock.Clock) Option {
	return func(c *RegionClient) {
		c.clock = clk
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *RegionClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxAttempts retries transport failures, 429 and 5xx responses up to
// n attempts in total. Each attempt gets its own timeout and signature.
// Clients make a single attempt unless this is set; a refresh is a
// point-in-time batch and retrying is an operator opt-in on top of it.
func WithMaxAttempts(n uint) Option {
	return func(c *RegionClient) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackOff sets the delay policy between attempts
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *RegionClient) {
		c.backOff = newBackOff
	}
}

// NewRegionClient creates a client for the provider described by strategy
func NewRegionClient(strategy Strategy, mapper *regionmapper.RegionMapper, opts ...Option) *RegionClient {
	client := &RegionClient{
		strategy:    strategy,
		mapper:      mapper,
		clock:       clock.RealClock{},
		timeout:     DefaultTimeout,
		maxAttempts: 1,
		backOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}

	return client
}

// Provider returns the provider this client talks to
func (c *RegionClient) Provider() regionmapper.Provider {
	return c.strategy.Provider()
}

// Fetch retrieves and classifies the available regions of the provider
func (c *RegionClient) Fetch(ctx context.Context) ([]NormalizedRegion, error) {
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.fetchOnce(ctx)
	}, backoff.WithMaxTries(c.maxAttempts), backoff.WithBackOff(c.backOff()))
	if err != nil {
		return nil, err
	}

	raw, err := c.strategy.ParseRegions(body)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return c.normalize(raw), nil
}

// fetchOnce performs a single signed request and returns the response body.
// Errors that a retry cannot fix are marked permanent.
func (c *RegionClient) fetchOnce(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.strategy.NewRequest(ctx, c.clock.Now())
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("building request: %w", err))
	}

	klog.V(2).InfoS("Fetching provider regions",
		"provider", c.Provider(),
		"method", req.Method,
		"host", req.URL.Host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, snippet(body))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			klog.V(2).InfoS("Retryable provider response", "provider", c.Provider(), "status", resp.StatusCode)
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	return body, nil
}

// FetchRegions is Fetch without an error: failures are logged and an empty
// list is returned
func (c *RegionClient) FetchRegions(ctx context.Context) []NormalizedRegion {
	regions, err := c.Fetch(ctx)
	if err != nil {
		klog.ErrorS(err, "Failed to fetch regions", "provider", c.Provider())
		return []NormalizedRegion{}
	}
	return regions
}

func (c *RegionClient) normalize(raw []RawRegion) []NormalizedRegion {
	provider := c.Provider()
	regions := make([]NormalizedRegion, 0, len(raw))

	for _, r := range raw {
		if !r.Available || r.ID == "" {
			continue
		}

		cls := c.mapper.Classify(provider, r.ID)
		regions = append(regions, NormalizedRegion{
			Provider:    provider,
			RegionID:    r.ID,
			RegionName:  r.Name,
			CountryCode: cls.CountryCode,
			Continent:   cls.Bucket,
			Mapped:      cls.Mapped,
		})
	}

	klog.V(2).InfoS("Normalized provider regions",
		"provider", provider,
		"received", len(raw),
		"available", len(regions))

	return regions
}

func snippet(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
