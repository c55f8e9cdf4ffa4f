package fx

// RateTable maps a currency-pair symbol (e.g. "USDJPY=X") to the
// home-currency value of one unit of the foreign currency. Tables come
// from the market data provider and may be incomplete; missing pairs
// fall back to approximate rates.
type RateTable map[string]float64

// fallbackRates are approximate home-per-unit rates used when a live
// pair is unavailable. Values approximate JPY rates; any currency not
// listed here degrades to 1.0.
var fallbackRates = map[string]float64{
	"USD": 150.0,
	"EUR": 160.0,
	"GBP": 180.0,
	"AUD": 100.0,
	"CAD": 110.0,
	"CHF": 165.0,
	"HKD": 19.0,
	"SGD": 110.0,
	"CNY": 21.0,
	"KRW": 0.11,
}

// PairSymbol returns the provider symbol for converting currency into
// homeCurrency, e.g. PairSymbol("USD", "JPY") == "USDJPY=X".
func PairSymbol(currency, homeCurrency string) string {
	return currency + homeCurrency + "=X"
}

// RateFor resolves the exchange rate from currency into homeCurrency.
// The home currency itself is exactly 1.0. A pair present in the table
// is used as-is. Anything else resolves to an approximate fallback rate
// (1.0 for currencies outside the fallback set) and is reported via
// usedFallback so callers can surface the degradation.
func RateFor(currency, homeCurrency string, table RateTable) (rate float64, usedFallback bool) {
	if currency == homeCurrency {
		return 1.0, false
	}

	if rate, ok := table[PairSymbol(currency, homeCurrency)]; ok {
		return rate, false
	}

	if rate, ok := fallbackRates[currency]; ok {
		return rate, true
	}

	// Unknown currency: approximate as parity rather than failing the
	// whole analysis over one position.
	return 1.0, true
}
