package risk

// AlignReturns builds an aligned ReturnTable from ragged provider
// series. Tickers with fewer than minPeriods observations are dropped;
// the survivors are truncated to the shortest common length, keeping
// the most recent periods. Input order is preserved for the survivors
// so weights can be renormalized against the same order.
func AlignReturns(tickers []string, series map[string][]float64, minPeriods int) ReturnTable {
	if minPeriods < 2 {
		minPeriods = 2
	}

	var (
		kept      []string
		keptSize  = -1
		keptSlice [][]float64
	)

	for _, ticker := range tickers {
		s := series[ticker]
		if len(s) < minPeriods {
			continue
		}
		kept = append(kept, ticker)
		keptSlice = append(keptSlice, s)
		if keptSize == -1 || len(s) < keptSize {
			keptSize = len(s)
		}
	}

	if len(kept) == 0 {
		return ReturnTable{}
	}

	aligned := make([][]float64, len(kept))
	for i, s := range keptSlice {
		// Keep the tail: the most recent keptSize periods.
		aligned[i] = s[len(s)-keptSize:]
	}

	return ReturnTable{Tickers: kept, Series: aligned}
}

// RenormalizeWeights rebuilds portfolio weights over the surviving
// tickers so they sum to 1 after alignment dropped some. A zero total
// degrades to equal weights.
func RenormalizeWeights(tickers []string, valueByTicker map[string]float64) []float64 {
	if len(tickers) == 0 {
		return nil
	}

	total := 0.0
	for _, ticker := range tickers {
		total += valueByTicker[ticker]
	}

	weights := make([]float64, len(tickers))
	for i, ticker := range tickers {
		if total > 0 {
			weights[i] = valueByTicker[ticker] / total
		} else {
			weights[i] = 1.0 / float64(len(tickers))
		}
	}

	return weights
}
