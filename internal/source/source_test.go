package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

func TestGrowth_FullWindow(t *testing.T) {
	// 7 prior samples at 50, last 2 at 60: (60-50)/50*100 = 20%
	series := []float64{50, 50, 50, 50, 50, 50, 50, 60, 60}
	assert.InDelta(t, 20, Growth(series), 1e-6)
}

func TestGrowth_ReducedSplit(t *testing.T) {
	// Fewer than 9 samples: last sample vs mean of the rest.
	series := []float64{40, 60}
	assert.InDelta(t, 50, Growth(series), 1e-6)
}

func TestGrowth_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, Growth(nil))
	assert.Equal(t, 0.0, Growth([]float64{42}))
}

func TestGrowth_FlatSeries(t *testing.T) {
	series := []float64{30, 30, 30, 30, 30, 30, 30, 30, 30, 30}
	assert.InDelta(t, 0, Growth(series), 1e-6)
}

func TestSearchTrendSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/interest", r.URL.Path)
		kw := r.URL.Query().Get("keyword")
		resp := map[string]any{
			"keyword": kw,
			"points": []map[string]any{
				{"date": "2026-08-01", "value": 40.0},
				{"date": "2026-08-02", "value": 60.0},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	src := NewSearchTrendSource(srv.URL, 2*time.Second)
	vals, err := src.Fetch(context.Background(), []string{"air fryer"})
	require.NoError(t, err)
	assert.InDelta(t, 50, vals["air fryer"], 1e-6)
}

func TestSearchTrendSource_EmptySeriesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"keyword":"x","points":[]}`))
	}))
	defer srv.Close()

	src := NewSearchTrendSource(srv.URL, 2*time.Second)
	_, err := src.Fetch(context.Background(), []string{"x"})
	require.Error(t, err)
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, model.SignalSearch, srcErr.Kind)
}

func TestParseListing(t *testing.T) {
	page := `<div>Hot item <span>US $12.99</span> free shipping
		<img src="https://img.example.com/item123.jpg"/> 1,234 sold</div>`
	l, err := ParseListing("air fryer", page)
	require.NoError(t, err)
	assert.Equal(t, 12.99, l.Price)
	assert.Equal(t, 1234.0, l.Orders)
	assert.Equal(t, "https://img.example.com/item123.jpg", l.ImageURL)
}

func TestParseListing_MissingPrice(t *testing.T) {
	_, err := ParseListing("x", "no listings here")
	require.Error(t, err)
}

func TestParseListing_MissingOrders(t *testing.T) {
	_, err := ParseListing("x", "only a price US $9.50 and nothing else")
	require.Error(t, err)
}

func TestMarketplaceSource_FetchListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wholesale", r.URL.Path)
		w.Write([]byte(`<html>US $8.40 <img src="https://cdn.example.com/a.png"> 567 sold</html>`))
	}))
	defer srv.Close()

	src := NewMarketplaceSource(srv.URL, 2*time.Second)
	listings, err := src.FetchListings(context.Background(), []string{"smartwatch"})
	require.NoError(t, err)
	l := listings["smartwatch"]
	assert.Equal(t, 8.4, l.Price)
	assert.Equal(t, 567.0, l.Orders)
	assert.Equal(t, "https://cdn.example.com/a.png", l.ImageURL)
}

func TestMarketplaceSource_DownstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewMarketplaceSource(srv.URL, 2*time.Second)
	_, err := src.Fetch(context.Background(), []string{"x"})
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, model.SignalMarketplace, srcErr.Kind)
}

func TestRandomBuzzSource_InRange(t *testing.T) {
	src := NewRandomBuzzSource()
	r := RangeFor(model.SignalBuzz)
	for i := 0; i < 50; i++ {
		vals, err := src.Fetch(context.Background(), []string{"a", "b"})
		require.NoError(t, err)
		for _, v := range vals {
			assert.GreaterOrEqual(t, v, r.Min)
			assert.LessOrEqual(t, v, r.Max)
		}
	}
}

func TestFallbackValue_Bounded(t *testing.T) {
	for _, kind := range []model.SignalKind{model.SignalSearch, model.SignalMarketplace, model.SignalBuzz} {
		r := RangeFor(kind)
		require.Greater(t, r.Max, r.Min, "range for %s", kind)
		for i := 0; i < 100; i++ {
			v := FallbackValue(kind)
			assert.GreaterOrEqual(t, v, r.Min)
			assert.LessOrEqual(t, v, r.Max)
		}
	}
}
