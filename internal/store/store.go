package store

import "github.com/carrickvaughan/dropship-trends-app/internal/model"

// Store persists scored snapshots and the saved-swipe log. Snapshots are
// append-only: no update or delete is part of the contract.
type Store interface {
	// Append durably persists all rows of one snapshot atomically.
	Append(snap model.Snapshot) error
	// LoadHistory returns the full persisted history ordered by time
	// ascending. An empty history is a valid, non-error result.
	LoadHistory() ([]model.ScoredRow, error)

	SaveSwipe(sw *model.SavedSwipe) error
	LoadSwipes() ([]model.SavedSwipe, error)

	Close() error
}
