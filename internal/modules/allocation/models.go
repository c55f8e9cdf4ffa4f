package allocation

// RegionAllocation aggregates positions resolved to one region bucket.
type RegionAllocation struct {
	Region               string  `json:"region"`
	CurrentValueHome     float64 `json:"current_value_home"`
	CostBasisHome        float64 `json:"cost_basis_home"`
	PnLAmount            float64 `json:"pnl_amount"`
	PositionCount        int     `json:"position_count"`
	AllocationPercentage float64 `json:"allocation_percentage"`
	PnLPercentage        float64 `json:"pnl_percentage"`
}
