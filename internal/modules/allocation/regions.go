package allocation

import "strings"

// Region bucket names. The dashboard reports in Japanese, matching the
// home-currency audience.
const (
	RegionJapan       = "日本"
	RegionUS          = "米国"
	RegionEurope      = "欧州"
	RegionAsiaPacific = "アジア太平洋"
	RegionNorthAm     = "北米（その他）"
	RegionOther       = "その他"
)

var europeanCountries = map[string]bool{
	"GERMANY": true, "FRANCE": true, "UNITED KINGDOM": true, "UK": true,
	"GREAT BRITAIN": true, "ITALY": true, "SPAIN": true, "NETHERLANDS": true,
	"SWITZERLAND": true, "SWEDEN": true, "NORWAY": true, "DENMARK": true,
	"FINLAND": true, "BELGIUM": true, "AUSTRIA": true, "IRELAND": true,
	"PORTUGAL": true, "LUXEMBOURG": true, "GREECE": true, "POLAND": true,
	"CZECH REPUBLIC": true, "HUNGARY": true, "SLOVAKIA": true, "SLOVENIA": true,
	"CROATIA": true, "ROMANIA": true, "BULGARIA": true, "ESTONIA": true,
	"LATVIA": true, "LITHUANIA": true, "MALTA": true, "CYPRUS": true,
}

var asiaPacificCountries = map[string]bool{
	"CHINA": true, "SOUTH KOREA": true, "KOREA": true, "TAIWAN": true,
	"HONG KONG": true, "SINGAPORE": true, "MALAYSIA": true, "THAILAND": true,
	"INDONESIA": true, "PHILIPPINES": true, "VIETNAM": true, "INDIA": true,
	"AUSTRALIA": true, "NEW ZEALAND": true,
}

// ClassifyRegion maps a company's domicile country to a region bucket.
// Matching is exact after upper-casing and trimming; anything unknown
// or empty lands in その他. This is the single classification function
// used by both the allocation aggregation and detail-table enrichment.
func ClassifyRegion(country string) string {
	if country == "" {
		return RegionOther
	}

	c := strings.ToUpper(strings.TrimSpace(country))

	switch {
	case c == "JAPAN":
		return RegionJapan
	case c == "UNITED STATES" || c == "USA" || c == "US":
		return RegionUS
	case europeanCountries[c]:
		return RegionEurope
	case asiaPacificCountries[c]:
		return RegionAsiaPacific
	case c == "CANADA":
		return RegionNorthAm
	default:
		return RegionOther
	}
}

// RegionFromTickerSuffix classifies by exchange-suffix convention when
// no domicile country is available at all. Unsuffixed tickers are
// assumed to be US listings.
func RegionFromTickerSuffix(ticker string) string {
	switch {
	case hasSuffix(ticker, ".T", ".JP"):
		return RegionJapan
	case hasSuffix(ticker, ".AS", ".PA", ".DE", ".MI", ".L"):
		return RegionEurope
	case hasSuffix(ticker, ".TO", ".V"):
		return RegionNorthAm
	case hasSuffix(ticker, ".AX", ".HK"):
		return RegionAsiaPacific
	default:
		return RegionUS
	}
}

// ResolveRegion picks the domicile-based classification when country
// data exists for the ticker and falls back to the suffix convention
// otherwise.
func ResolveRegion(ticker string, countries map[string]string) string {
	if country, ok := countries[ticker]; ok && country != "" {
		return ClassifyRegion(country)
	}
	return RegionFromTickerSuffix(ticker)
}

func hasSuffix(ticker string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(ticker, suffix) {
			return true
		}
	}
	return false
}
