package matching

import "strings"

// 目标国家（规范名称）
const (
	CountryGermany       = "Germany"
	CountryCanada        = "Canada"
	CountryAustralia     = "Australia"
	CountryUnitedStates  = "United States"
	CountryUnitedKingdom = "United Kingdom"
	CountryNetherlands   = "Netherlands"
	CountrySingapore     = "Singapore"
)

// TargetCountries 每次重算都会查询的固定国家列表，与学生偏好无关
var TargetCountries = []string{
	CountryGermany,
	CountryCanada,
	CountryAustralia,
	CountryUnitedStates,
	CountryUnitedKingdom,
	CountryNetherlands,
	CountrySingapore,
}

// countryAliases 别名 → 规范国家名
var countryAliases = map[string]string{
	"USA": CountryUnitedStates,
	"UK":  CountryUnitedKingdom,
}

// tuitionTable 各国年均学费估算（美元）
var tuitionTable = map[string]int{
	CountryGermany:       1500,
	CountryCanada:        28000,
	CountryUnitedStates:  42000,
	CountryUnitedKingdom: 36000,
	CountryAustralia:     35000,
}

const defaultTuition = 30000

// NormalizeCountry 将别名归一为规范国家名，未知取值原样返回
func NormalizeCountry(c string) string {
	c = strings.TrimSpace(c)
	if full, ok := countryAliases[c]; ok {
		return full
	}
	return c
}

// NormalizeCountries 批量归一，返回集合
func NormalizeCountries(countries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[NormalizeCountry(c)] = struct{}{}
	}
	return set
}

// EstimateTuition 查表估算学费，未列出的国家使用默认值
func EstimateTuition(country string) int {
	if t, ok := tuitionTable[country]; ok {
		return t
	}
	return defaultTuition
}
