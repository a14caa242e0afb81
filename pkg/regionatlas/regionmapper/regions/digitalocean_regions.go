package regions

// DigitalOceanRegionInfo maps DigitalOcean region slugs to location information
var DigitalOceanRegionInfo = map[string]RegionInfo{
	"nyc1": region("nyc1", "US", "New York 1"),
	"nyc2": region("nyc2", "US", "New York 2"),
	"nyc3": region("nyc3", "US", "New York 3"),
	"sfo1": region("sfo1", "US", "San Francisco 1"),
	"sfo2": region("sfo2", "US", "San Francisco 2"),
	"sfo3": region("sfo3", "US", "San Francisco 3"),
	"tor1": region("tor1", "CA", "Toronto 1"),
	"lon1": region("lon1", "GB", "London 1"),
	"fra1": region("fra1", "DE", "Frankfurt 1"),
	"ams2": region("ams2", "NL", "Amsterdam 2"),
	"ams3": region("ams3", "NL", "Amsterdam 3"),
	"sgp1": region("sgp1", "SG", "Singapore 1"),
	"blr1": region("blr1", "IN", "Bangalore 1"),
	"syd1": region("syd1", "AU", "Sydney 1"),
}
