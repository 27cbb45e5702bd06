package history

import (
	"sort"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// TopGainer finds the product with the largest TrendScore increase between
// the two most recent distinct snapshot times. Returns nil when fewer than
// two distinct times exist ("no data yet" is not an error). Only products
// present in both snapshots are compared; ties break by product name
// ascending so the result is deterministic.
func TopGainer(rows []model.ScoredRow) *model.HistoryDelta {
	byTime := make(map[int64]map[string]float64)
	for _, r := range rows {
		ts := r.Time.UnixNano()
		if byTime[ts] == nil {
			byTime[ts] = make(map[string]float64)
		}
		byTime[ts][r.Product] = r.TrendScore
	}
	if len(byTime) < 2 {
		return nil
	}

	times := make([]int64, 0, len(byTime))
	for ts := range byTime {
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	last := byTime[times[len(times)-1]]
	prev := byTime[times[len(times)-2]]

	products := make([]string, 0, len(last))
	for p := range last {
		if _, ok := prev[p]; ok {
			products = append(products, p)
		}
	}
	if len(products) == 0 {
		return nil
	}
	sort.Strings(products)

	best := products[0]
	bestDelta := last[best] - prev[best]
	for _, p := range products[1:] {
		if d := last[p] - prev[p]; d > bestDelta {
			best, bestDelta = p, d
		}
	}
	return &model.HistoryDelta{Product: best, Delta: bestDelta}
}
