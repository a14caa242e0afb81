package regions

// AliyunRegionInfo maps Alibaba Cloud ECS region ids to location information
var AliyunRegionInfo = map[string]RegionInfo{
	// Mainland China
	"cn-qingdao":     region("cn-qingdao", "CN", "China North 1 (Qingdao)"),
	"cn-beijing":     region("cn-beijing", "CN", "China North 2 (Beijing)"),
	"cn-zhangjiakou": region("cn-zhangjiakou", "CN", "China North 3 (Zhangjiakou)"),
	"cn-huhehaote":   region("cn-huhehaote", "CN", "China North 5 (Hohhot)"),
	"cn-wulanchabu":  region("cn-wulanchabu", "CN", "China North 6 (Ulanqab)"),
	"cn-hangzhou":    region("cn-hangzhou", "CN", "China East 1 (Hangzhou)"),
	"cn-shanghai":    region("cn-shanghai", "CN", "China East 2 (Shanghai)"),
	"cn-nanjing":     region("cn-nanjing", "CN", "China East 5 (Nanjing)"),
	"cn-fuzhou":      region("cn-fuzhou", "CN", "China East 6 (Fuzhou)"),
	"cn-shenzhen":    region("cn-shenzhen", "CN", "China South 1 (Shenzhen)"),
	"cn-heyuan":      region("cn-heyuan", "CN", "China South 2 (Heyuan)"),
	"cn-guangzhou":   region("cn-guangzhou", "CN", "China South 3 (Guangzhou)"),
	"cn-wuhan-lr":    region("cn-wuhan-lr", "CN", "China Central 1 (Wuhan)"),
	"cn-chengdu":     region("cn-chengdu", "CN", "China Southwest 1 (Chengdu)"),

	// Hong Kong
	"cn-hongkong": region("cn-hongkong", "HK", "China (Hong Kong)"),

	// Outside China
	"ap-northeast-1": region("ap-northeast-1", "JP", "Japan (Tokyo)"),
	"ap-northeast-2": region("ap-northeast-2", "KR", "South Korea (Seoul)"),
	"ap-southeast-1": region("ap-southeast-1", "SG", "Singapore"),
	"ap-southeast-3": region("ap-southeast-3", "MY", "Malaysia (Kuala Lumpur)"),
	"ap-southeast-5": region("ap-southeast-5", "ID", "Indonesia (Jakarta)"),
	"ap-southeast-6": region("ap-southeast-6", "PH", "Philippines (Manila)"),
	"ap-southeast-7": region("ap-southeast-7", "TH", "Thailand (Bangkok)"),
	"us-east-1":      region("us-east-1", "US", "US (Virginia)"),
	"us-west-1":      region("us-west-1", "US", "US (Silicon Valley)"),
	"na-south-1":     region("na-south-1", "MX", "Mexico"),
	"eu-west-1":      region("eu-west-1", "GB", "UK (London)"),
	"eu-central-1":   region("eu-central-1", "DE", "Germany (Frankfurt)"),
	"me-east-1":      region("me-east-1", "AE", "UAE (Dubai)"),
}
