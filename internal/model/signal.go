package model

import "time"

// SignalKind identifies one external measurement source.
type SignalKind string

const (
	SignalSearch      SignalKind = "search"
	SignalMarketplace SignalKind = "marketplace_orders"
	SignalBuzz        SignalKind = "social_buzz"
)

// SignalReading is one raw value from one source for one product in one
// fetch cycle. Readings are folded into a ScoredRow and not persisted.
type SignalReading struct {
	Product   string
	Kind      SignalKind
	RawValue  float64
	FetchedAt time.Time
}

// Listing is the marketplace side-data for one product: a representative
// price, an orders/popularity count, and a best-effort image URL.
type Listing struct {
	Product  string
	Price    float64
	Orders   float64
	ImageURL string
}
