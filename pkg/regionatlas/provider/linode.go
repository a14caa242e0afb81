package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

const (
	LinodeBaseURL = "https://api.linode.com/v4"

	linodeStatusOK          = "ok"
	linodeComputeCapability = "Linodes"
)

// Linode authenticates with a bearer token
type Linode struct {
	BaseURL string
	Token   string
}

type linodeRegionsResponse struct {
	Data []linodeRegion `json:"data"`
}

type linodeRegion struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Country      string   `json:"country"`
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities"`
}

func (l *Linode) Provider() regionmapper.Provider {
	return regionmapper.ProviderLinode
}

func (l *Linode) NewRequest(ctx context.Context, _ time.Time) (*http.Request, error) {
	return newBearerRequest(ctx, l.BaseURL+"/regions", l.Token)
}

// ParseRegions keeps regions that are up and offer compute instances
func (l *Linode) ParseRegions(body []byte) ([]RawRegion, error) {
	var resp linodeRegionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding linode regions: %w", err)
	}

	regions := make([]RawRegion, 0, len(resp.Data))
	for _, r := range resp.Data {
		regions = append(regions, RawRegion{
			ID:        r.ID,
			Name:      r.Label,
			Available: r.Status == linodeStatusOK && slices.Contains(r.Capabilities, linodeComputeCapability),
		})
	}
	return regions, nil
}

func newBearerRequest(ctx context.Context, url, token string) (*http.Request, error) {
	if token == "" {
		return nil, ErrMissingCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
