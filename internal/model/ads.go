package model

import "time"

// AdCreative is one ad example surfaced for a product.
type AdCreative struct {
	ImageURL  string `json:"image"`
	SourceURL string `json:"source"`
	Caption   string `json:"caption"`
}

// SavedSwipe is a user-bookmarked ad creative.
type SavedSwipe struct {
	ID        int64     `json:"id"`
	Product   string    `json:"product"`
	ImageURL  string    `json:"image_url"`
	SourceURL string    `json:"source_url"`
	Caption   string    `json:"caption"`
	SavedAt   time.Time `json:"saved_at"`
}
