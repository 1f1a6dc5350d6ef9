package intents

import (
	"regexp"
	"strconv"
	"strings"
)

// Районы города, встречающиеся в адресах
var bostonPlaces = []string{
	"boston", "allston", "back bay", "bay village", "beacon hill", "brighton",
	"charlestown", "chinatown", "dorchester", "downtown", "east boston",
	"fenway", "hyde park", "jamaica plain", "leather district", "longwood",
	"mattapan", "mission hill", "north end", "roslindale", "roxbury",
	"south boston", "south end", "west end", "west roxbury",
}

// ZIP вне диапазона 02108-02137, принадлежащие Бостону
var extraBostonZIPs = map[int]bool{
	2163: true, 2199: true, 2201: true, 2203: true, 2205: true,
	2210: true, 2215: true, 2222: true, 2228: true,
}

var usStateCodes = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true, "co": true, "ct": true,
	"de": true, "dc": true, "fl": true, "ga": true, "hi": true, "id": true, "il": true,
	"in": true, "ia": true, "ks": true, "ky": true, "la": true, "me": true, "md": true,
	"ma": true, "mi": true, "mn": true, "ms": true, "mo": true, "mt": true, "ne": true,
	"nv": true, "nh": true, "nj": true, "nm": true, "ny": true, "nc": true, "nd": true,
	"oh": true, "ok": true, "or": true, "pa": true, "ri": true, "sc": true, "sd": true,
	"tn": true, "tx": true, "ut": true, "vt": true, "va": true, "wa": true, "wv": true,
	"wi": true, "wy": true,
}

var (
	addressZIPPattern   = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)
	bostonPlacePatterns = compilePlacePatterns(bostonPlaces)
)

func compilePlacePatterns(places []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(places))
	for _, place := range places {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(place)+`\b`))
	}
	return patterns
}

// IsAddressInCity проверяет, что адрес относится к Бостону.
// Адрес без города, штата и ZIP считается городским: пользователь назвал только улицу.
func IsAddressInCity(address string) bool {
	lower := strings.ToLower(strings.TrimSpace(address))
	if lower == "" {
		return false
	}

	if m := addressZIPPattern.FindAllStringSubmatch(lower, -1); len(m) > 0 {
		zip, err := strconv.Atoi(m[len(m)-1][1])
		return err == nil && isBostonZIP(zip)
	}

	for _, pattern := range bostonPlacePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	return !hasLocality(lower)
}

func isBostonZIP(zip int) bool {
	return (zip >= 2108 && zip <= 2137) || extraBostonZIPs[zip]
}

// hasLocality true, если в адресе указан город или штат
func hasLocality(address string) bool {
	if strings.Contains(address, ",") {
		return true
	}
	fields := strings.Fields(strings.NewReplacer(".", " ").Replace(address))
	if len(fields) < 2 {
		return false
	}
	last := fields[len(fields)-1]
	return usStateCodes[last] && !streetSuffixes[last]
}

// Сокращения типов улиц, совпадающие с кодами штатов
var streetSuffixes = map[string]bool{
	"ct": true,
	"la": true,
}
