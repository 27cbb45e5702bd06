package model

import "time"

// ScoredRow is one product's entry in a scored batch. Rows are created once
// per product per cycle and never updated in place.
type ScoredRow struct {
	Time            time.Time `json:"time"`
	Product         string    `json:"product"`
	GoogleScore     float64   `json:"google_score"`
	AliScore        float64   `json:"ali_score"`
	TikTokScore     float64   `json:"tiktok_score"`
	Price           float64   `json:"price"`
	ProfitMargin    float64   `json:"profit_margin"`
	TrendScore      float64   `json:"trend_score"`
	ProfitPotential float64   `json:"profit_potential"`
	ImageURL        string    `json:"image_url,omitempty"`
	SearchURL       string    `json:"search_url,omitempty"`
}

// Snapshot is an ordered batch of rows sharing one timestamp, the unit of
// append to the store.
type Snapshot []ScoredRow

// HistoryDelta is the period-over-period TrendScore change for the top
// gaining product between the two most recent snapshots.
type HistoryDelta struct {
	Product string  `json:"product"`
	Delta   float64 `json:"delta"`
}
