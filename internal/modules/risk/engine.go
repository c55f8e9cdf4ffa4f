package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ComputeRisk computes covariance-based portfolio risk metrics from
// aligned return series and portfolio weights.
//
// Weights must be ordered like table.Tickers and sum to 1 (renormalize
// with RenormalizeWeights after alignment). The covariance convention
// is Bessel-corrected sample covariance throughout. All outputs are at
// the native periodicity of the inputs.
func ComputeRisk(table ReturnTable, weights []float64) (RiskMetrics, error) {
	n := len(table.Tickers)
	if n < 2 {
		return RiskMetrics{}, fmt.Errorf("%w: need at least 2 aligned return series, got %d", ErrInsufficientData, n)
	}
	if table.Periods() < 2 {
		return RiskMetrics{}, fmt.Errorf("%w: need at least 2 return observations, got %d", ErrInsufficientData, table.Periods())
	}
	if len(weights) != n {
		return RiskMetrics{}, fmt.Errorf("weights length %d does not match %d tickers", len(weights), n)
	}

	cov := covarianceMatrix(table)

	vols := make([]float64, n)
	for i := 0; i < n; i++ {
		vols[i] = math.Sqrt(cov.At(i, i))
	}

	portfolioVol := portfolioVolatility(cov, weights)

	corr := correlationFromCovariance(cov, vols)

	avgCorr := 0.0
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			avgCorr += corr.At(i, j)
			pairs++
		}
	}
	avgCorr /= float64(pairs)

	// Weighted sum of stand-alone volatilities over realized portfolio
	// volatility; a zero-vol portfolio is the degenerate fully
	// diversified case, not an error.
	divRatio := 1.0
	if portfolioVol > 0 {
		weightedVols := 0.0
		for i, w := range weights {
			weightedVols += w * vols[i]
		}
		divRatio = weightedVols / portfolioVol
	}

	individualVols := make(map[string]float64, n)
	corrByTicker := make(map[string]map[string]float64, n)
	for i, ticker := range table.Tickers {
		individualVols[ticker] = vols[i]
		row := make(map[string]float64, n)
		for j, other := range table.Tickers {
			row[other] = corr.At(i, j)
		}
		corrByTicker[ticker] = row
	}

	return RiskMetrics{
		PortfolioVolatility:    portfolioVol,
		AverageCorrelation:     avgCorr,
		DiversificationRatio:   divRatio,
		IndividualVolatilities: individualVols,
		CorrelationMatrix:      corrByTicker,
	}, nil
}

// covarianceMatrix builds the sample covariance matrix of the aligned
// series (observations in rows, assets in columns).
func covarianceMatrix(table ReturnTable) *mat.SymDense {
	periods := table.Periods()
	n := len(table.Tickers)

	data := mat.NewDense(periods, n, nil)
	for j, series := range table.Series {
		for t, r := range series {
			data.Set(t, j, r)
		}
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, data, nil)
	return cov
}

// portfolioVolatility computes sqrt(wᵀΣw), clamping tiny negative
// quadratic forms from floating-point noise to zero.
func portfolioVolatility(cov mat.Symmetric, weights []float64) float64 {
	w := mat.NewVecDense(len(weights), weights)
	variance := mat.Inner(w, cov, w)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// correlationFromCovariance derives the Pearson correlation matrix.
// The diagonal is exactly 1; a zero-variance asset correlates 0 with
// everything rather than producing NaN.
func correlationFromCovariance(cov *mat.SymDense, vols []float64) *mat.SymDense {
	n := len(vols)
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			if vols[i] == 0 || vols[j] == 0 {
				corr.SetSym(i, j, 0)
				continue
			}
			corr.SetSym(i, j, cov.At(i, j)/(vols[i]*vols[j]))
		}
	}
	return corr
}
