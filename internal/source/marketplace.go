package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// MarketplaceSource scrapes a catalog search page per product for a price,
// an orders count and a representative image URL. Scraping is best-effort
// text scanning; the strategy is hidden behind the Source interface so a
// structured API can replace it without touching the scorer.
type MarketplaceSource struct {
	baseURL string
	client  *resty.Client
}

var (
	priceRe  = regexp.MustCompile(`(?:US\s*)?\$\s*([0-9]+(?:\.[0-9]{1,2})?)`)
	ordersRe = regexp.MustCompile(`([0-9][0-9,]*)\+?\s*(?:sold|orders)`)
)

// NewMarketplaceSource creates the marketplace adapter.
func NewMarketplaceSource(baseURL string, timeout time.Duration) *MarketplaceSource {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	return &MarketplaceSource{baseURL: baseURL, client: client}
}

func (s *MarketplaceSource) Name() string           { return "marketplace" }
func (s *MarketplaceSource) Kind() model.SignalKind { return model.SignalMarketplace }

// SearchURL returns the public search page for a product keyword.
func (s *MarketplaceSource) SearchURL(keyword string) string {
	return s.baseURL + "/wholesale?SearchText=" + url.QueryEscape(keyword)
}

// Fetch returns the orders count per keyword, the marketplace's ranking
// signal.
func (s *MarketplaceSource) Fetch(ctx context.Context, keywords []string) (map[string]float64, error) {
	listings, err := s.FetchListings(ctx, keywords)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(listings))
	for kw, l := range listings {
		out[kw] = l.Orders
	}
	return out, nil
}

// FetchListings scrapes price, orders and image per keyword.
func (s *MarketplaceSource) FetchListings(ctx context.Context, keywords []string) (map[string]model.Listing, error) {
	out := make(map[string]model.Listing, len(keywords))
	for _, kw := range keywords {
		resp, err := s.client.R().SetContext(ctx).Get(s.SearchURL(kw))
		if err != nil {
			return nil, &SourceError{Kind: s.Kind(), Err: err}
		}
		if resp.StatusCode() != 200 {
			return nil, &SourceError{Kind: s.Kind(), Err: fmt.Errorf("status %d for %q", resp.StatusCode(), kw)}
		}
		listing, err := ParseListing(kw, string(resp.Body()))
		if err != nil {
			return nil, &SourceError{Kind: s.Kind(), Err: err}
		}
		out[kw] = listing
	}
	return out, nil
}

// ParseListing extracts a listing from raw page text. Price and orders are
// required; a missing image is tolerated and left empty.
func ParseListing(keyword, page string) (model.Listing, error) {
	l := model.Listing{Product: keyword}

	if m := priceRe.FindStringSubmatch(page); m != nil {
		if p, err := strconv.ParseFloat(m[1], 64); err == nil {
			l.Price = p
		}
	}
	if l.Price == 0 {
		return l, fmt.Errorf("no price found for %q", keyword)
	}

	if m := ordersRe.FindStringSubmatch(page); m != nil {
		if n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			l.Orders = n
		}
	}
	if l.Orders == 0 {
		return l, fmt.Errorf("no orders count found for %q", keyword)
	}

	l.ImageURL = firstImageURL(page)
	return l, nil
}

// firstImageURL scans for the first https image link in the page text.
func firstImageURL(page string) string {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if end := strings.Index(page, ext); end >= 0 {
			start := strings.LastIndex(page[:end], "https://")
			if start >= 0 {
				u := page[start : end+len(ext)]
				if !strings.ContainsAny(u, "\"' <>") {
					return u
				}
			}
		}
	}
	return ""
}
