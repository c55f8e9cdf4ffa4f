package portfolio

import (
	"sort"

	"github.com/aristath/portfolio-insight/pkg/formulas"
)

// AnalyzeSizing measures portfolio concentration from position weights.
// Weights are percentages of total current value; a zero total value
// yields equal weights so the figures stay defined.
func AnalyzeSizing(results []PositionResult) SizingAnalysis {
	if len(results) == 0 {
		return SizingAnalysis{}
	}

	totalValue := 0.0
	for _, r := range results {
		totalValue += r.CurrentValueHome
	}

	type weighted struct {
		ticker string
		weight float64
	}

	weightsByTicker := make([]weighted, len(results))
	weights := make([]float64, len(results))
	for i, r := range results {
		w := 100.0 / float64(len(results))
		if totalValue > 0 {
			w = r.CurrentValueHome / totalValue * 100
		}
		weights[i] = w
		weightsByTicker[i] = weighted{ticker: r.Ticker, weight: w}
	}

	sort.SliceStable(weightsByTicker, func(i, j int) bool {
		return weightsByTicker[i].weight > weightsByTicker[j].weight
	})

	topN := func(n int) float64 {
		if n > len(weightsByTicker) {
			n = len(weightsByTicker)
		}
		sum := 0.0
		for _, w := range weightsByTicker[:n] {
			sum += w.weight
		}
		return sum
	}

	hhi := 0.0
	for _, w := range weights {
		hhi += w * w
	}

	return SizingAnalysis{
		TotalPositions:       len(results),
		Top5Concentration:    topN(5),
		Top10Concentration:   topN(10),
		HerfindahlIndex:      hhi,
		EqualWeightBenchmark: 100.0 / float64(len(results)),
		WeightVariance:       formulas.Variance(weights),
		MaxPositionWeight:    weightsByTicker[0].weight,
		MinPositionWeight:    weightsByTicker[len(weightsByTicker)-1].weight,
		LargestPosition:      weightsByTicker[0].ticker,
		SmallestPosition:     weightsByTicker[len(weightsByTicker)-1].ticker,
	}
}
