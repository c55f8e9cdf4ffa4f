package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRegion(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    string
	}{
		{name: "Japan", country: "Japan", want: RegionJapan},
		{name: "United States", country: "United States", want: RegionUS},
		{name: "USA short form", country: "USA", want: RegionUS},
		{name: "case insensitive", country: "uNiTeD sTaTeS", want: RegionUS},
		{name: "whitespace trimmed", country: "  Germany  ", want: RegionEurope},
		{name: "UK", country: "United Kingdom", want: RegionEurope},
		{name: "Switzerland", country: "Switzerland", want: RegionEurope},
		{name: "Australia", country: "Australia", want: RegionAsiaPacific},
		{name: "Hong Kong", country: "Hong Kong", want: RegionAsiaPacific},
		{name: "Canada", country: "Canada", want: RegionNorthAm},
		{name: "unknown country", country: "Brazil", want: RegionOther},
		{name: "empty country", country: "", want: RegionOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRegion(tt.country))
		})
	}
}

func TestRegionFromTickerSuffix(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
	}{
		{"7203.T", RegionJapan},
		{"9984.JP", RegionJapan},
		{"ASML.AS", RegionEurope},
		{"MC.PA", RegionEurope},
		{"SAP.DE", RegionEurope},
		{"ENI.MI", RegionEurope},
		{"SHEL.L", RegionEurope},
		{"SHOP.TO", RegionNorthAm},
		{"WEED.V", RegionNorthAm},
		{"BHP.AX", RegionAsiaPacific},
		{"0700.HK", RegionAsiaPacific},
		{"AAPL", RegionUS},
		{"MSFT", RegionUS},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionFromTickerSuffix(tt.ticker))
		})
	}
}

func TestResolveRegion(t *testing.T) {
	countries := map[string]string{
		"AAPL":   "United States",
		"7203.T": "Japan",
		// Listed in Amsterdam, domiciled in the US: country wins.
		"PINS.AS": "United States",
	}

	assert.Equal(t, RegionUS, ResolveRegion("AAPL", countries))
	assert.Equal(t, RegionUS, ResolveRegion("PINS.AS", countries))
	// No country data: suffix convention decides.
	assert.Equal(t, RegionEurope, ResolveRegion("ASML.AS", countries))
	assert.Equal(t, RegionUS, ResolveRegion("UNKNOWN", countries))
}
