package regionmapper

import "strings"

// Bucket is the coarse three-way grouping stored with each availability zone
type Bucket string

const (
	BucketAmericas     Bucket = "americas"
	BucketEuropeAfrica Bucket = "europe-africa"
	BucketAPAC         Bucket = "apac"
)

// Valid reports whether b is one of the known buckets
func (b Bucket) Valid() bool {
	switch b {
	case BucketAmericas, BucketEuropeAfrica, BucketAPAC:
		return true
	}
	return false
}

// Continent is the six-way grouping used when presenting regions
type Continent string

const (
	ContinentNorthAmerica Continent = "north-america"
	ContinentSouthAmerica Continent = "south-america"
	ContinentEurope       Continent = "europe"
	ContinentAsiaPacific  Continent = "asia-pacific"
	ContinentChina        Continent = "china"
	ContinentOthers       Continent = "others"
)

// ContinentOrder is the display order of the six continents
var ContinentOrder = []Continent{
	ContinentNorthAmerica,
	ContinentSouthAmerica,
	ContinentEurope,
	ContinentAsiaPacific,
	ContinentChina,
	ContinentOthers,
}

var continentNames = map[Continent]string{
	ContinentNorthAmerica: "North America",
	ContinentSouthAmerica: "South America",
	ContinentEurope:       "Europe",
	ContinentAsiaPacific:  "Asia Pacific",
	ContinentChina:        "China",
	ContinentOthers:       "Other Regions",
}

// countryBuckets is deliberately narrower than countryContinents: codes
// missing here, such as SE or AR, fall into apac.
var countryBuckets = map[string]Bucket{
	// Americas
	"US": BucketAmericas, "CA": BucketAmericas, "BR": BucketAmericas, "MX": BucketAmericas,

	// Europe and Africa
	"GB": BucketEuropeAfrica, "DE": BucketEuropeAfrica, "FR": BucketEuropeAfrica,
	"NL": BucketEuropeAfrica, "IT": BucketEuropeAfrica, "ES": BucketEuropeAfrica,
	"PL": BucketEuropeAfrica, "ZA": BucketEuropeAfrica,

	// Asia Pacific
	"CN": BucketAPAC, "JP": BucketAPAC, "SG": BucketAPAC, "AU": BucketAPAC,
	"IN": BucketAPAC, "KR": BucketAPAC, "HK": BucketAPAC, "TH": BucketAPAC,
	"ID": BucketAPAC, "MY": BucketAPAC, "PH": BucketAPAC, "AE": BucketAPAC,
}

var countryContinents = map[string]Continent{
	"US": ContinentNorthAmerica, "CA": ContinentNorthAmerica, "MX": ContinentNorthAmerica,

	"BR": ContinentSouthAmerica, "AR": ContinentSouthAmerica, "CL": ContinentSouthAmerica,
	"CO": ContinentSouthAmerica, "PE": ContinentSouthAmerica,

	"DE": ContinentEurope, "GB": ContinentEurope, "FR": ContinentEurope,
	"IT": ContinentEurope, "ES": ContinentEurope, "NL": ContinentEurope,
	"SE": ContinentEurope, "FI": ContinentEurope, "IE": ContinentEurope,

	// Asia Pacific excluding mainland China
	"JP": ContinentAsiaPacific, "KR": ContinentAsiaPacific, "SG": ContinentAsiaPacific,
	"AU": ContinentAsiaPacific, "IN": ContinentAsiaPacific, "ID": ContinentAsiaPacific,
	"MY": ContinentAsiaPacific, "TH": ContinentAsiaPacific, "PH": ContinentAsiaPacific,
	"AE": ContinentAsiaPacific, "HK": ContinentAsiaPacific,

	"CN": ContinentChina,
}

// BucketFor maps a country code to its collector-facing bucket. Unknown
// codes fall into apac.
func BucketFor(countryCode string) Bucket {
	if b, ok := countryBuckets[strings.ToUpper(countryCode)]; ok {
		return b
	}
	return BucketAPAC
}

// ClassifyContinent maps a country code to one of the six continents.
// Unknown codes fall into others.
func ClassifyContinent(countryCode string) Continent {
	if c, ok := countryContinents[strings.ToUpper(countryCode)]; ok {
		return c
	}
	return ContinentOthers
}

// ContinentName returns the display name of a continent, or the key itself
// when it is not a known continent
func ContinentName(c Continent) string {
	if name, ok := continentNames[c]; ok {
		return name
	}
	return string(c)
}

// GroupByContinent buckets items by the six-way continent of their country code
func GroupByContinent[T any](items []T, countryCode func(T) string) map[Continent][]T {
	grouped := make(map[Continent][]T)
	for _, item := range items {
		c := ClassifyContinent(countryCode(item))
		grouped[c] = append(grouped[c], item)
	}
	return grouped
}

// OrderedContinents returns the continents present in grouped, in display order
func OrderedContinents[T any](grouped map[Continent][]T) []Continent {
	var ordered []Continent
	for _, c := range ContinentOrder {
		if _, ok := grouped[c]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
