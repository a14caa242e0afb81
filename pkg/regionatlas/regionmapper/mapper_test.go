package regionmapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRegionMapper(t *testing.T) {
	mapper := NewRegionMapper()
	if mapper == nil {
		t.Fatal("NewRegionMapper returned nil")
	}

	want := []Provider{ProviderAliyun, ProviderDigitalOcean, ProviderLinode, ProviderTencent}
	if diff := cmp.Diff(want, mapper.Providers()); diff != "" {
		t.Errorf("Providers() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCountryCode(t *testing.T) {
	mapper := NewRegionMapper()

	testCases := []struct {
		provider Provider
		region   string
		expected string
	}{
		{ProviderLinode, "us-east", "US"},
		{ProviderLinode, "eu-west", "GB"},
		{ProviderLinode, "ca-central", "CA"},
		{ProviderLinode, "br-gru", "BR"},
		{ProviderLinode, "ap-south", "SG"},
		{ProviderDigitalOcean, "fra1", "DE"},
		{ProviderDigitalOcean, "blr1", "IN"},
		{ProviderAliyun, "cn-hongkong", "HK"},
		{ProviderAliyun, "me-east-1", "AE"},
		{ProviderTencent, "eu-moscow", "RU"},
		{ProviderTencent, "na-toronto", "CA"},

		// Unmapped regions fall back to the provider family default
		{ProviderLinode, "xx-new", "US"},
		{ProviderDigitalOcean, "zz-unknown", "US"},
		{ProviderAliyun, "zz-unknown", "CN"},
		{ProviderTencent, "zz-unknown", "CN"},
		{ProviderAliyun, "", "CN"},
		{Provider("unknown"), "region", "US"},

		// Provider names are case-insensitive
		{Provider("LINODE"), "eu-west", "GB"},
	}

	for _, tc := range testCases {
		got := mapper.GetCountryCode(tc.provider, tc.region)
		if got != tc.expected {
			t.Errorf("GetCountryCode(%s, %s) = %q, expected %q", tc.provider, tc.region, got, tc.expected)
		}
	}
}

func TestLookupReportsUnmapped(t *testing.T) {
	mapper := NewRegionMapper()

	code, mapped := mapper.Lookup(ProviderLinode, "us-east")
	if code != "US" || !mapped {
		t.Errorf("Lookup(linode, us-east) = (%q, %v), expected (US, true)", code, mapped)
	}

	code, mapped = mapper.Lookup(ProviderAliyun, "zz-unknown")
	if code != "CN" || mapped {
		t.Errorf("Lookup(aliyun, zz-unknown) = (%q, %v), expected (CN, false)", code, mapped)
	}
}

func TestClassify(t *testing.T) {
	mapper := NewRegionMapper()

	testCases := []struct {
		provider Provider
		region   string
		expected Classification
	}{
		{ProviderLinode, "us-east", Classification{CountryCode: "US", Bucket: BucketAmericas, Mapped: true}},
		{ProviderLinode, "eu-west", Classification{CountryCode: "GB", Bucket: BucketEuropeAfrica, Mapped: true}},
		{ProviderTencent, "ap-beijing", Classification{CountryCode: "CN", Bucket: BucketAPAC, Mapped: true}},
		{ProviderAliyun, "zz-unknown", Classification{CountryCode: "CN", Bucket: BucketAPAC, Mapped: false}},
		{ProviderDigitalOcean, "zz-unknown", Classification{CountryCode: "US", Bucket: BucketAmericas, Mapped: false}},
	}

	for _, tc := range testCases {
		got := mapper.Classify(tc.provider, tc.region)
		if diff := cmp.Diff(tc.expected, got); diff != "" {
			t.Errorf("Classify(%s, %s) mismatch (-want +got):\n%s", tc.provider, tc.region, diff)
		}
	}
}

func TestGetRegionInfo(t *testing.T) {
	mapper := NewRegionMapper()

	info, ok := mapper.GetRegionInfo(ProviderLinode, "us-ord")
	if !ok {
		t.Fatal("expected linode us-ord to be mapped")
	}
	want := RegionInfo{Provider: ProviderLinode, RegionID: "us-ord", CountryCode: "US", DisplayName: "Chicago, IL"}
	if diff := cmp.Diff(want, *info); diff != "" {
		t.Errorf("GetRegionInfo mismatch (-want +got):\n%s", diff)
	}

	// Mutating the returned copy must not leak into the table
	info.CountryCode = "XX"
	if got := mapper.GetCountryCode(ProviderLinode, "us-ord"); got != "US" {
		t.Errorf("table was modified through GetRegionInfo, got %q", got)
	}

	if _, ok := mapper.GetRegionInfo(Provider("unknown"), "us-ord"); ok {
		t.Error("expected unknown provider lookup to miss")
	}
}

func TestTableSizes(t *testing.T) {
	mapper := NewRegionMapper()

	testCases := map[Provider]int{
		ProviderLinode:       31,
		ProviderDigitalOcean: 14,
		ProviderAliyun:       28,
		ProviderTencent:      18,
	}
	for provider, expected := range testCases {
		if got := len(mapper.GetAllRegions(provider)); got != expected {
			t.Errorf("GetAllRegions(%s) has %d entries, expected %d", provider, got, expected)
		}
	}
}

func TestTableEntriesAreConsistent(t *testing.T) {
	mapper := NewRegionMapper()

	for _, provider := range mapper.Providers() {
		for id, info := range mapper.GetAllRegions(provider) {
			if info.RegionID != id {
				t.Errorf("%s/%s: RegionID field is %q", provider, id, info.RegionID)
			}
			if len(info.CountryCode) != 2 {
				t.Errorf("%s/%s: country code %q is not alpha-2", provider, id, info.CountryCode)
			}
			if info.DisplayName == "" {
				t.Errorf("%s/%s: empty display name", provider, id)
			}
		}
	}
}

func TestGetAllRegionsReturnsCopy(t *testing.T) {
	mapper := NewRegionMapper()

	all := mapper.GetAllRegions(ProviderDigitalOcean)
	delete(all, "nyc1")

	if !mapper.ValidateMapping(ProviderDigitalOcean, "nyc1") {
		t.Error("deleting from GetAllRegions result removed the table entry")
	}
}

func TestRegionOverrides(t *testing.T) {
	mapper := NewRegionMapperWithConfig(&Config{
		RegionOverrides: []RegionOverride{
			{Provider: "Linode", Region: "no-osl", CountryCode: "no", DisplayName: "Oslo, NO", Continent: "europe-africa"},
			{Provider: "tencent", Region: "ap-hongkong", CountryCode: "HK", DisplayName: "Hong Kong"},
			{Provider: "aws", Region: "us-east-1", CountryCode: "US"},
			{Provider: "linode", Region: "", CountryCode: "US"},
		},
	})

	got := mapper.Classify(ProviderLinode, "no-osl")
	want := Classification{CountryCode: "NO", Bucket: BucketEuropeAfrica, Mapped: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("override classification mismatch (-want +got):\n%s", diff)
	}

	info, ok := mapper.GetRegionInfo(ProviderTencent, "ap-hongkong")
	if !ok || info.DisplayName != "Hong Kong" {
		t.Errorf("expected override to replace ap-hongkong display name, got %+v", info)
	}

	if len(mapper.Providers()) != 4 {
		t.Errorf("override for unknown provider created a table: %v", mapper.Providers())
	}

	// Overrides apply to the mapper instance only
	if NewRegionMapper().ValidateMapping(ProviderLinode, "no-osl") {
		t.Error("override leaked into a fresh mapper")
	}
}

func TestDefaultCountryCode(t *testing.T) {
	testCases := []struct {
		provider Provider
		expected string
		china    bool
	}{
		{ProviderAliyun, "CN", true},
		{ProviderTencent, "CN", true},
		{ProviderLinode, "US", false},
		{ProviderDigitalOcean, "US", false},
	}
	for _, tc := range testCases {
		if got := DefaultCountryCode(tc.provider); got != tc.expected {
			t.Errorf("DefaultCountryCode(%s) = %q, expected %q", tc.provider, got, tc.expected)
		}
		if got := IsChinaHeadquartered(tc.provider); got != tc.china {
			t.Errorf("IsChinaHeadquartered(%s) = %v, expected %v", tc.provider, got, tc.china)
		}
	}
}
