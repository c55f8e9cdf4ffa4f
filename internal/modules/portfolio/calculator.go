package portfolio

// ComputePositionResult values one position in the home currency.
//
// It never fails: a missing or zero local price is treated as a total,
// bounded loss (value 0, P&L -100%) so that one bad quote cannot block
// the whole analysis. cost basis is defined in the home currency
// already and is never recomputed from a foreign price.
func ComputePositionResult(pos Position, localPrice, exchangeRate float64, currency string) PositionResult {
	costBasis := pos.AvgCostHome * pos.Shares

	if localPrice <= 0 {
		pnlPct := 0.0
		if costBasis > 0 {
			pnlPct = -100.0
		}
		return PositionResult{
			Ticker:            pos.Ticker,
			Shares:            pos.Shares,
			AvgCostHome:       pos.AvgCostHome,
			CurrentPriceLocal: 0,
			ExchangeRate:      exchangeRate,
			CurrentPriceHome:  0,
			CurrentValueHome:  0,
			CostBasisHome:     costBasis,
			PnLAmount:         -costBasis,
			PnLPercentage:     pnlPct,
			Currency:          currency,
		}
	}

	currentPriceHome := localPrice * exchangeRate
	currentValue := currentPriceHome * pos.Shares
	pnlAmount := currentValue - costBasis

	pnlPct := 0.0
	if costBasis > 0 {
		pnlPct = pnlAmount / costBasis * 100
	}

	return PositionResult{
		Ticker:            pos.Ticker,
		Shares:            pos.Shares,
		AvgCostHome:       pos.AvgCostHome,
		CurrentPriceLocal: localPrice,
		ExchangeRate:      exchangeRate,
		CurrentPriceHome:  currentPriceHome,
		CurrentValueHome:  currentValue,
		CostBasisHome:     costBasis,
		PnLAmount:         pnlAmount,
		PnLPercentage:     pnlPct,
		Currency:          currency,
	}
}
