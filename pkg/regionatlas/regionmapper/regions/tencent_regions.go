package regions

// TencentRegionInfo maps Tencent Cloud CVM region ids to location information
var TencentRegionInfo = map[string]RegionInfo{
	// Mainland China
	"ap-beijing":   region("ap-beijing", "CN", "North China (Beijing)"),
	"ap-chengdu":   region("ap-chengdu", "CN", "Southwest China (Chengdu)"),
	"ap-chongqing": region("ap-chongqing", "CN", "Southwest China (Chongqing)"),
	"ap-guangzhou": region("ap-guangzhou", "CN", "South China (Guangzhou)"),
	"ap-shanghai":  region("ap-shanghai", "CN", "East China (Shanghai)"),
	"ap-nanjing":   region("ap-nanjing", "CN", "East China (Nanjing)"),

	// Hong Kong, Macao and Taiwan
	"ap-hongkong": region("ap-hongkong", "HK", "Hong Kong, Macao and Taiwan (Hong Kong)"),

	// Outside China
	"ap-singapore":     region("ap-singapore", "SG", "Southeast Asia (Singapore)"),
	"ap-bangkok":       region("ap-bangkok", "TH", "Southeast Asia (Bangkok)"),
	"ap-jakarta":       region("ap-jakarta", "ID", "Southeast Asia (Jakarta)"),
	"ap-seoul":         region("ap-seoul", "KR", "Northeast Asia (Seoul)"),
	"ap-tokyo":         region("ap-tokyo", "JP", "Northeast Asia (Tokyo)"),
	"na-siliconvalley": region("na-siliconvalley", "US", "US West (Silicon Valley)"),
	"na-ashburn":       region("na-ashburn", "US", "US East (Virginia)"),
	"na-toronto":       region("na-toronto", "CA", "North America (Toronto)"),
	"sa-saopaulo":      region("sa-saopaulo", "BR", "South America (São Paulo)"),
	"eu-frankfurt":     region("eu-frankfurt", "DE", "Europe (Frankfurt)"),
	"eu-moscow":        region("eu-moscow", "RU", "Europe (Moscow)"),
}
