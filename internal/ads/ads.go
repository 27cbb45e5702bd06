package ads

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// Fetcher looks up ad creatives for a product from an external library.
type Fetcher interface {
	FetchCreatives(ctx context.Context, product string) ([]model.AdCreative, error)
}

// HTTPFetcher queries an ad-library service.
type HTTPFetcher struct {
	baseURL string
	client  *resty.Client
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	return &HTTPFetcher{baseURL: baseURL, client: client}
}

func (f *HTTPFetcher) FetchCreatives(ctx context.Context, product string) ([]model.AdCreative, error) {
	var creatives []model.AdCreative
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("q", product).
		SetResult(&creatives).
		Get(f.baseURL + "/api/v1/creatives")
	if err != nil {
		return nil, fmt.Errorf("fetch creatives: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch creatives: status %d", resp.StatusCode())
	}
	return creatives, nil
}

// PlaceholderFetcher is the stand-in when no ad library is configured.
type PlaceholderFetcher struct{}

func (PlaceholderFetcher) FetchCreatives(_ context.Context, product string) ([]model.AdCreative, error) {
	return []model.AdCreative{{
		ImageURL:  "https://via.placeholder.com/120x80.png?text=" + url.QueryEscape(product),
		SourceURL: "https://example.com",
		Caption:   "Sample Ad",
	}}, nil
}

type cacheEntry struct {
	creatives []model.AdCreative
	expiresAt time.Time
}

// Cache serves ad creatives per product from an in-memory cache with a
// freshness window, refetching on expiry. A failed refetch serves an empty
// list rather than an error so the dashboard row still renders.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache wraps a Fetcher with a freshness window.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Creatives returns the cached creatives for a product, fetching when the
// entry is missing or stale.
func (c *Cache) Creatives(ctx context.Context, product string) []model.AdCreative {
	c.mu.RLock()
	entry, ok := c.entries[product]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.creatives
	}

	creatives, err := c.fetcher.FetchCreatives(ctx, product)
	if err != nil {
		log.Printf("[WARN] creative fetch failed for %q: %v", product, err)
		creatives = nil
	}

	c.mu.Lock()
	c.entries[product] = cacheEntry{creatives: creatives, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return creatives
}
