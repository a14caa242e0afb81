package provider

import (
	"fmt"
	"sort"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

// Info describes a provider for display and seeding purposes
type Info struct {
	Name        regionmapper.Provider
	DisplayName string
	Color       string
	APIEndpoint string
}

// Catalog lists the supported providers
var Catalog = []Info{
	{Name: regionmapper.ProviderLinode, DisplayName: "Linode", Color: "#3498db", APIEndpoint: LinodeBaseURL + "/"},
	{Name: regionmapper.ProviderDigitalOcean, DisplayName: "DigitalOcean", Color: "#ffb3d9", APIEndpoint: DigitalOceanBaseURL + "/"},
	{Name: regionmapper.ProviderAliyun, DisplayName: "Alibaba Cloud", Color: "#ff8c00", APIEndpoint: AliyunEndpoint},
	{Name: regionmapper.ProviderTencent, DisplayName: "Tencent Cloud", Color: "#2ecc71", APIEndpoint: TencentEndpoint},
}

// Credentials holds the secrets of every provider
type Credentials struct {
	LinodeToken       string
	DigitalOceanToken string
	AliyunKeyID       string
	AliyunKeySecret   string
	TencentSecretID   string
	TencentSecretKey  string
}

// NewClients builds one client per catalog entry, in catalog order
func NewClients(creds Credentials, mapper *regionmapper.RegionMapper, opts ...Option) []Client {
	strategies := []Strategy{
		&Linode{BaseURL: LinodeBaseURL, Token: creds.LinodeToken},
		&DigitalOcean{BaseURL: DigitalOceanBaseURL, Token: creds.DigitalOceanToken},
		&Aliyun{Endpoint: AliyunEndpoint, AccessKeyID: creds.AliyunKeyID, AccessKeySecret: creds.AliyunKeySecret},
		&Tencent{Endpoint: TencentEndpoint, SecretID: creds.TencentSecretID, SecretKey: creds.TencentSecretKey},
	}

	clients := make([]Client, 0, len(strategies))
	for _, s := range strategies {
		clients = append(clients, NewRegionClient(s, mapper, opts...))
	}
	return clients
}

// Lookup returns the catalog entry of a provider
func Lookup(name regionmapper.Provider) (Info, error) {
	for _, info := range Catalog {
		if info.Name == name {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("unknown provider: %s", name)
}

// Names returns the catalog provider names, alphabetically ordered
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for _, info := range Catalog {
		names = append(names, string(info.Name))
	}
	sort.Strings(names)
	return names
}
