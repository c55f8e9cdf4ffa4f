package allocation

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-insight/internal/modules/portfolio"
)

// CountryLookup resolves the domicile country per ticker. Tickers the
// provider knows nothing about are simply absent from the map.
type CountryLookup interface {
	Countries(tickers []string) (map[string]string, error)
}

// Service buckets valued positions into geographic regions
type Service struct {
	portfolioSvc *portfolio.Service
	countries    CountryLookup
	log          zerolog.Logger
}

// NewService creates a new allocation service
func NewService(portfolioSvc *portfolio.Service, countries CountryLookup, log zerolog.Logger) *Service {
	return &Service{
		portfolioSvc: portfolioSvc,
		countries:    countries,
		log:          log.With().Str("service", "allocation").Logger(),
	}
}

// Aggregate groups position results by resolved region and computes
// per-region totals and percentages. Output is ordered by current
// value descending, region name as tiebreak, so responses are
// deterministic.
func Aggregate(results []portfolio.PositionResult, countries map[string]string) []RegionAllocation {
	buckets := make(map[string]*RegionAllocation)

	totalValue := 0.0
	for _, r := range results {
		region := ResolveRegion(r.Ticker, countries)

		bucket, ok := buckets[region]
		if !ok {
			bucket = &RegionAllocation{Region: region}
			buckets[region] = bucket
		}

		bucket.CurrentValueHome += r.CurrentValueHome
		bucket.CostBasisHome += r.CostBasisHome
		bucket.PnLAmount += r.PnLAmount
		bucket.PositionCount++
		totalValue += r.CurrentValueHome
	}

	allocations := make([]RegionAllocation, 0, len(buckets))
	for _, bucket := range buckets {
		if totalValue > 0 {
			bucket.AllocationPercentage = bucket.CurrentValueHome / totalValue * 100
		}
		if bucket.CostBasisHome > 0 {
			bucket.PnLPercentage = bucket.PnLAmount / bucket.CostBasisHome * 100
		}
		allocations = append(allocations, *bucket)
	}

	sort.Slice(allocations, func(i, j int) bool {
		if allocations[i].CurrentValueHome != allocations[j].CurrentValueHome {
			return allocations[i].CurrentValueHome > allocations[j].CurrentValueHome
		}
		return allocations[i].Region < allocations[j].Region
	})

	return allocations
}

// RegionAllocations values the portfolio and buckets it by region. A
// country lookup failure degrades to suffix classification rather than
// failing the analysis.
func (s *Service) RegionAllocations() ([]RegionAllocation, error) {
	results, err := s.portfolioSvc.BuildResults()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	tickers := make([]string, len(results))
	for i, r := range results {
		tickers[i] = r.Ticker
	}

	countries, err := s.countries.Countries(tickers)
	if err != nil {
		s.log.Warn().Err(err).Msg("Country lookup failed, classifying by ticker suffix")
		countries = nil
	}

	return Aggregate(results, countries), nil
}
