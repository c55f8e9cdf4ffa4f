package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// StressTest recomputes portfolio volatility under a shocked regime:
// every stand-alone volatility is scaled by stressFactor and every
// pairwise correlation is replaced with the single scalar
// correlationShock. Assets becoming more volatile and more correlated
// at once is the worst case for diversification benefit.
//
// correlationShock must lie in [-1, 1] and stressFactor must be
// non-negative; out-of-range scenarios are rejected with
// ErrInvalidScenario instead of silently producing an indefinite
// covariance matrix.
func StressTest(table ReturnTable, weights []float64, stressFactor, correlationShock float64) (StressResult, error) {
	if correlationShock < -1 || correlationShock > 1 {
		return StressResult{}, fmt.Errorf("%w: correlation shock %v outside [-1, 1]", ErrInvalidScenario, correlationShock)
	}
	if stressFactor < 0 {
		return StressResult{}, fmt.Errorf("%w: stress factor %v is negative", ErrInvalidScenario, stressFactor)
	}

	n := len(table.Tickers)
	if n < 2 {
		return StressResult{}, fmt.Errorf("%w: need at least 2 aligned return series, got %d", ErrInsufficientData, n)
	}
	if table.Periods() < 2 {
		return StressResult{}, fmt.Errorf("%w: need at least 2 return observations, got %d", ErrInsufficientData, table.Periods())
	}
	if len(weights) != n {
		return StressResult{}, fmt.Errorf("weights length %d does not match %d tickers", len(weights), n)
	}

	cov := covarianceMatrix(table)
	normalVol := portfolioVolatility(cov, weights)

	// Rebuild the covariance matrix from the scaled volatilities and
	// the uniform shocked correlation: Σ'ij = ρ'·σ'i·σ'j, diag σ'i².
	stressedVols := make([]float64, n)
	for i := 0; i < n; i++ {
		stressedVols[i] = math.Sqrt(cov.At(i, i)) * stressFactor
	}

	stressed := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		stressed.SetSym(i, i, stressedVols[i]*stressedVols[i])
		for j := i + 1; j < n; j++ {
			stressed.SetSym(i, j, correlationShock*stressedVols[i]*stressedVols[j])
		}
	}

	// A uniform correlation matrix is only positive semi-definite for
	// ρ ≥ -1/(n-1); portfolioVolatility clamps the residual negative
	// variance such shocks can produce.
	stressedVol := portfolioVolatility(stressed, weights)

	multiplier := 1.0
	if normalVol > 0 {
		multiplier = stressedVol / normalVol
	}

	return StressResult{
		NormalPortfolioVol:   normalVol,
		StressedPortfolioVol: stressedVol,
		StressMultiplier:     multiplier,
		StressFactor:         stressFactor,
		CorrelationShock:     correlationShock,
	}, nil
}
