package pipeline

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
	"github.com/carrickvaughan/dropship-trends-app/internal/scoring"
	"github.com/carrickvaughan/dropship-trends-app/internal/source"
	"github.com/carrickvaughan/dropship-trends-app/internal/store"
)

// Per-cycle defaults applied when the caller supplies nonsense parameters.
const (
	DefaultMarkup   = 2.5
	DefaultShipping = 3.0
)

// Placeholder batch values used when the whole batch computation degrades.
const (
	placeholderSignal    = 10.0
	placeholderPrice     = 20.0
	placeholderMargin    = 50.0
	placeholderTrend     = 30.0
	placeholderPotential = 30.0
)

// Pipeline drives one fetch, normalize, score, persist cycle. Cycles are
// serialized: no two run concurrently against the same store.
type Pipeline struct {
	mu       sync.Mutex
	search   source.Source
	market   source.ListingSource
	buzz     source.Source
	store    store.Store
	products []string

	lastBatch []model.ScoredRow
}

// New creates a Pipeline over the three signal sources and the snapshot
// store.
func New(search source.Source, market source.ListingSource, buzz source.Source, st store.Store, products []string) *Pipeline {
	return &Pipeline{
		search:   search,
		market:   market,
		buzz:     buzz,
		store:    st,
		products: products,
	}
}

// Products returns the tracked product list.
func (p *Pipeline) Products() []string { return p.products }

// Latest returns the batch produced by the most recent cycle, or nil when
// no cycle has run yet.
func (p *Pipeline) Latest() []model.ScoredRow {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastBatch
}

// RunCycle executes one full cycle and returns the scored batch. No error
// from any internal stage escapes: failed sources fall back to bounded
// random values, a degenerate batch falls back to fixed placeholders, and a
// persistence failure is logged while the in-memory batch is still returned.
func (p *Pipeline) RunCycle(ctx context.Context, markup, shipping float64) []model.ScoredRow {
	p.mu.Lock()
	defer p.mu.Unlock()

	if markup <= 0 {
		markup = DefaultMarkup
	}
	if shipping < 0 {
		shipping = DefaultShipping
	}
	if len(p.products) == 0 {
		log.Println("[WARN] no tracked products configured, nothing to score")
		return nil
	}

	now := time.Now().UTC().Truncate(time.Second)

	searchVals := foldReadings(p.fetchSignal(ctx, p.search, now))
	buzzVals := foldReadings(p.fetchSignal(ctx, p.buzz, now))
	listings := p.fetchListings(ctx)

	batch := p.buildBatch(now, markup, shipping, searchVals, buzzVals, listings)
	if len(batch) != len(p.products) {
		log.Printf("[WARN] batch computation degraded (%d/%d rows), using placeholder batch", len(batch), len(p.products))
		batch = p.placeholderBatch(now)
	}

	if err := p.store.Append(model.Snapshot(batch)); err != nil {
		log.Printf("[ERROR] append snapshot: %v", err)
	}

	p.lastBatch = batch
	return batch
}

// fetchSignal runs one adapter as an isolated fault domain: any failure is
// logged and replaced by the documented per-signal fallback values. The
// result always carries one reading per tracked product.
func (p *Pipeline) fetchSignal(ctx context.Context, src source.Source, now time.Time) []model.SignalReading {
	vals, err := src.Fetch(ctx, p.products)
	if err != nil {
		log.Printf("[WARN] %s fetch failed, using fallback values: %v", src.Name(), err)
		vals = make(map[string]float64, len(p.products))
	}
	readings := make([]model.SignalReading, 0, len(p.products))
	for _, product := range p.products {
		raw, ok := vals[product]
		if !ok {
			raw = source.FallbackValue(src.Kind())
		}
		readings = append(readings, model.SignalReading{
			Product:   product,
			Kind:      src.Kind(),
			RawValue:  raw,
			FetchedAt: now,
		})
	}
	return readings
}

// foldReadings discards reading metadata once the cycle owns the values.
func foldReadings(readings []model.SignalReading) map[string]float64 {
	vals := make(map[string]float64, len(readings))
	for _, r := range readings {
		vals[r.Product] = r.RawValue
	}
	return vals
}

func (p *Pipeline) fetchListings(ctx context.Context) map[string]model.Listing {
	listings, err := p.market.FetchListings(ctx, p.products)
	if err != nil {
		log.Printf("[WARN] %s fetch failed, using fallback listings: %v", p.market.Name(), err)
		listings = make(map[string]model.Listing, len(p.products))
	}
	for _, product := range p.products {
		if _, ok := listings[product]; !ok {
			listings[product] = model.Listing{
				Product: product,
				Price:   source.FallbackPriceUSD,
				Orders:  source.FallbackValue(model.SignalMarketplace),
			}
		}
	}
	return listings
}

func (p *Pipeline) buildBatch(now time.Time, markup, shipping float64,
	searchVals, buzzVals map[string]float64, listings map[string]model.Listing) []model.ScoredRow {

	rawSearch := make([]float64, len(p.products))
	rawOrders := make([]float64, len(p.products))
	rawBuzz := make([]float64, len(p.products))
	for i, product := range p.products {
		rawSearch[i] = searchVals[product]
		rawOrders[i] = listings[product].Orders
		rawBuzz[i] = buzzVals[product]
		if !finite(rawSearch[i]) || !finite(rawOrders[i]) || !finite(rawBuzz[i]) {
			log.Printf("[WARN] non-finite signal for %q, batch is degenerate", product)
			return nil
		}
	}

	normSearch := scoring.Normalize(rawSearch)
	normOrders := scoring.Normalize(rawOrders)
	normBuzz := scoring.Normalize(rawBuzz)

	batch := make([]model.ScoredRow, 0, len(p.products))
	for i, product := range p.products {
		listing := listings[product]
		econ := scoring.ComputeEconomics(listing.Price, markup, shipping)
		trend := scoring.TrendScore(normSearch[i], normOrders[i], normBuzz[i])
		batch = append(batch, model.ScoredRow{
			Time:            now,
			Product:         product,
			GoogleScore:     scoring.Round2(rawSearch[i]),
			AliScore:        scoring.Round2(rawOrders[i]),
			TikTokScore:     scoring.Round2(rawBuzz[i]),
			Price:           scoring.Round2(listing.Price),
			ProfitMargin:    econ.ProfitMarginPct,
			TrendScore:      trend,
			ProfitPotential: scoring.ProfitPotential(trend, econ.ProfitMarginPct),
			ImageURL:        listing.ImageURL,
			SearchURL:       p.market.SearchURL(product),
		})
	}
	return batch
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// placeholderBatch is the last-resort fixed batch so the dashboard always
// has something to render.
func (p *Pipeline) placeholderBatch(now time.Time) []model.ScoredRow {
	batch := make([]model.ScoredRow, 0, len(p.products))
	for _, product := range p.products {
		batch = append(batch, model.ScoredRow{
			Time:            now,
			Product:         product,
			GoogleScore:     placeholderSignal,
			AliScore:        placeholderSignal,
			TikTokScore:     placeholderSignal,
			Price:           placeholderPrice,
			ProfitMargin:    placeholderMargin,
			TrendScore:      placeholderTrend,
			ProfitPotential: placeholderPotential,
			SearchURL:       p.market.SearchURL(product),
		})
	}
	return batch
}
