package regions

// LinodeRegionInfo maps Linode region ids to location information
var LinodeRegionInfo = map[string]RegionInfo{
	// United States
	"us-east":      region("us-east", "US", "Newark, NJ"),
	"us-central":   region("us-central", "US", "Dallas, TX"),
	"us-west":      region("us-west", "US", "Fremont, CA"),
	"us-southeast": region("us-southeast", "US", "Atlanta, GA"),
	"us-ord":       region("us-ord", "US", "Chicago, IL"),
	"us-lax":       region("us-lax", "US", "Los Angeles, CA"),
	"us-mia":       region("us-mia", "US", "Miami, FL"),
	"us-sea":       region("us-sea", "US", "Seattle, WA"),
	"us-iad":       region("us-iad", "US", "Washington, DC"),

	// Canada
	"ca-central": region("ca-central", "CA", "Toronto, CA"),

	// Europe
	"eu-west":    region("eu-west", "GB", "London, UK"),
	"eu-central": region("eu-central", "DE", "Frankfurt, DE"),
	"de-fra-2":   region("de-fra-2", "DE", "Frankfurt 2, DE"),
	"fr-par":     region("fr-par", "FR", "Paris, FR"),
	"it-mil":     region("it-mil", "IT", "Milan, IT"),
	"nl-ams":     region("nl-ams", "NL", "Amsterdam, NL"),
	"se-sto":     region("se-sto", "SE", "Stockholm, SE"),
	"gb-lon":     region("gb-lon", "GB", "London 2, UK"),
	"es-mad":     region("es-mad", "ES", "Madrid, ES"),

	// Asia Pacific
	"ap-south":     region("ap-south", "SG", "Singapore, SG"),
	"ap-northeast": region("ap-northeast", "JP", "Tokyo 2, JP"),
	"ap-southeast": region("ap-southeast", "AU", "Sydney, AU"),
	"ap-west":      region("ap-west", "IN", "Mumbai, IN"),
	"au-mel":       region("au-mel", "AU", "Melbourne, AU"),
	"sg-sin-2":     region("sg-sin-2", "SG", "Singapore 2, SG"),
	"jp-osa":       region("jp-osa", "JP", "Osaka, JP"),
	"jp-tyo-3":     region("jp-tyo-3", "JP", "Tokyo 3, JP"),
	"in-bom-2":     region("in-bom-2", "IN", "Mumbai 2, IN"),
	"in-maa":       region("in-maa", "IN", "Chennai, IN"),
	"id-cgk":       region("id-cgk", "ID", "Jakarta, ID"),

	// South America
	"br-gru": region("br-gru", "BR", "São Paulo, BR"),
}
