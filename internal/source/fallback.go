package source

import (
	"math/rand"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// FallbackRange bounds the pseudo-random stand-in value used when a source
// fails. The pipeline always produces a complete batch, trading signal
// fidelity for availability.
type FallbackRange struct {
	Min float64
	Max float64
}

// Fallback ranges per signal kind. Search and buzz mirror the 20-80 / 20-90
// interest scale; orders covers a plausible order-count spread.
var fallbackRanges = map[model.SignalKind]FallbackRange{
	model.SignalSearch:      {Min: 20, Max: 80},
	model.SignalMarketplace: {Min: 10, Max: 500},
	model.SignalBuzz:        {Min: 20, Max: 90},
}

// FallbackPriceUSD is the placeholder source price when the marketplace
// listing cannot be scraped.
const FallbackPriceUSD = 20.0

// RangeFor returns the fallback range for a signal kind.
func RangeFor(kind model.SignalKind) FallbackRange {
	return fallbackRanges[kind]
}

// FallbackValue draws a bounded pseudo-random stand-in for a failed signal.
func FallbackValue(kind model.SignalKind) float64 {
	r := fallbackRanges[kind]
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
