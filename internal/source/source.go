package source

import (
	"context"
	"fmt"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// Source fetches one raw signal value per product keyword. Implementations
// return a SourceError on any network, timeout or decode failure; callers
// substitute a fallback value and keep the cycle alive.
type Source interface {
	Name() string
	Kind() model.SignalKind
	Fetch(ctx context.Context, keywords []string) (map[string]float64, error)
}

// ListingSource is implemented by sources that also carry price and image
// side-data (the marketplace adapter).
type ListingSource interface {
	Source
	FetchListings(ctx context.Context, keywords []string) (map[string]model.Listing, error)
	// SearchURL returns the public catalog search page for a keyword,
	// carried on scored rows for the presentation layer.
	SearchURL(keyword string) string
}

// SourceError wraps a failed adapter call with its signal kind so the
// fallback policy can be applied per signal.
type SourceError struct {
	Kind model.SignalKind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
