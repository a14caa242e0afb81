package regions

// CountryNames is the catalog of countries that host at least one known
// provider region. It seeds the countries table.
var CountryNames = map[string]string{
	"AE": "United Arab Emirates",
	"AU": "Australia",
	"BR": "Brazil",
	"CA": "Canada",
	"CN": "China",
	"DE": "Germany",
	"ES": "Spain",
	"FR": "France",
	"GB": "United Kingdom",
	"HK": "Hong Kong",
	"ID": "Indonesia",
	"IN": "India",
	"IT": "Italy",
	"JP": "Japan",
	"KR": "South Korea",
	"MX": "Mexico",
	"MY": "Malaysia",
	"NL": "Netherlands",
	"PH": "Philippines",
	"RU": "Russia",
	"SE": "Sweden",
	"SG": "Singapore",
	"TH": "Thailand",
	"US": "United States",
}
