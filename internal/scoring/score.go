package scoring

import "math"

// Weights for the combined trend score. Search interest dominates, order
// volume second, social buzz last.
const (
	WeightSearch = 0.5
	WeightOrders = 0.3
	WeightBuzz   = 0.2
)

// ProfitPotential weighting: trend carries 0.65, margin 0.35.
const (
	WeightTrend  = 0.65
	WeightMargin = 0.35
)

// Economics holds the derived profit numbers for one product at a given
// markup and shipping cost.
type Economics struct {
	SellPrice       float64
	Profit          float64
	ProfitMarginPct float64
}

// ComputeEconomics derives sell price, absolute profit and margin percent
// from a source price. Finite output for any finite non-negative input.
func ComputeEconomics(price, markup, shipping float64) Economics {
	sell := price*markup + shipping
	profit := sell - price - shipping
	margin := profit / (sell + epsilon) * 100
	return Economics{
		SellPrice:       Round2(sell),
		Profit:          Round2(profit),
		ProfitMarginPct: Round2(margin),
	}
}

// TrendScore combines the three normalized signals with the fixed weights.
func TrendScore(normSearch, normOrders, normBuzz float64) float64 {
	return Round2(WeightSearch*normSearch + WeightOrders*normOrders + WeightBuzz*normBuzz)
}

// ProfitPotential combines the trend score with the profit margin percent.
func ProfitPotential(trendScore, profitMarginPct float64) float64 {
	return Round2(WeightTrend*trendScore + WeightMargin*profitMarginPct)
}

// Round2 rounds to two decimal places for display and storage consistency.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
