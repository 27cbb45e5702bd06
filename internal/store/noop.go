package store

import "github.com/carrickvaughan/dropship-trends-app/internal/model"

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Append(_ model.Snapshot) error           { return nil }
func (n *NoopStore) LoadHistory() ([]model.ScoredRow, error) { return nil, nil }
func (n *NoopStore) SaveSwipe(_ *model.SavedSwipe) error     { return nil }
func (n *NoopStore) LoadSwipes() ([]model.SavedSwipe, error) { return nil, nil }
func (n *NoopStore) Close() error                            { return nil }
