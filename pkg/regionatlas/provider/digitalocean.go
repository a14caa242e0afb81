package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

const DigitalOceanBaseURL = "https://api.digitalocean.com/v2"

// DigitalOcean authenticates with a bearer token
type DigitalOcean struct {
	BaseURL string
	Token   string
}

type digitalOceanRegionsResponse struct {
	Regions []digitalOceanRegion `json:"regions"`
}

type digitalOceanRegion struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Available bool     `json:"available"`
	Features  []string `json:"features"`
}

func (d *DigitalOcean) Provider() regionmapper.Provider {
	return regionmapper.ProviderDigitalOcean
}

func (d *DigitalOcean) NewRequest(ctx context.Context, _ time.Time) (*http.Request, error) {
	return newBearerRequest(ctx, d.BaseURL+"/regions", d.Token)
}

func (d *DigitalOcean) ParseRegions(body []byte) ([]RawRegion, error) {
	var resp digitalOceanRegionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding digitalocean regions: %w", err)
	}

	regions := make([]RawRegion, 0, len(resp.Regions))
	for _, r := range resp.Regions {
		regions = append(regions, RawRegion{ID: r.Slug, Name: r.Name, Available: r.Available})
	}
	return regions, nil
}
