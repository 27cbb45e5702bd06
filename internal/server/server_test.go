package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrickvaughan/dropship-trends-app/internal/ads"
	"github.com/carrickvaughan/dropship-trends-app/internal/model"
	"github.com/carrickvaughan/dropship-trends-app/internal/pipeline"
)

type stubSource struct {
	kind model.SignalKind
	vals map[string]float64
}

func (s *stubSource) Name() string           { return "stub" }
func (s *stubSource) Kind() model.SignalKind { return s.kind }
func (s *stubSource) Fetch(_ context.Context, _ []string) (map[string]float64, error) {
	return s.vals, nil
}

type stubMarket struct {
	listings map[string]model.Listing
}

func (s *stubMarket) Name() string           { return "stub-market" }
func (s *stubMarket) Kind() model.SignalKind { return model.SignalMarketplace }
func (s *stubMarket) Fetch(_ context.Context, _ []string) (map[string]float64, error) {
	out := make(map[string]float64)
	for k, l := range s.listings {
		out[k] = l.Orders
	}
	return out, nil
}
func (s *stubMarket) FetchListings(_ context.Context, _ []string) (map[string]model.Listing, error) {
	return s.listings, nil
}
func (s *stubMarket) SearchURL(keyword string) string { return "https://m.example.com/s?q=" + keyword }

type stubStore struct {
	history []model.ScoredRow
	swipes  []model.SavedSwipe
}

func (s *stubStore) Append(snap model.Snapshot) error {
	s.history = append(s.history, snap...)
	return nil
}
func (s *stubStore) LoadHistory() ([]model.ScoredRow, error) { return s.history, nil }
func (s *stubStore) SaveSwipe(sw *model.SavedSwipe) error {
	sw.ID = int64(len(s.swipes) + 1)
	sw.SavedAt = time.Now().UTC()
	s.swipes = append(s.swipes, *sw)
	return nil
}
func (s *stubStore) LoadSwipes() ([]model.SavedSwipe, error) { return s.swipes, nil }
func (s *stubStore) Close() error                            { return nil }

func newTestRouter(st *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	products := []string{"air fryer", "smartwatch"}
	search := &stubSource{kind: model.SignalSearch, vals: map[string]float64{"air fryer": 10, "smartwatch": 30}}
	buzz := &stubSource{kind: model.SignalBuzz, vals: map[string]float64{"air fryer": 40, "smartwatch": 60}}
	market := &stubMarket{listings: map[string]model.Listing{
		"air fryer":  {Product: "air fryer", Price: 20, Orders: 100},
		"smartwatch": {Product: "smartwatch", Price: 50, Orders: 300},
	}}
	pipe := pipeline.New(search, market, buzz, st, products)
	adCache := ads.NewCache(ads.PlaceholderFetcher{}, time.Minute)
	return SetupRouter(NewHandler(pipe, st, adCache), false)
}

func doRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubStore{})
	w := doRequest(router, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRefresh_ReturnsScoredBatch(t *testing.T) {
	st := &stubStore{}
	router := newTestRouter(st)

	w := doRequest(router, "POST", "/api/v1/refresh?markup=3&shipping=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows []model.ScoredRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 2)
	assert.Len(t, st.history, 2)
}

func TestGetTrends_RunsFirstCycleOnDemand(t *testing.T) {
	router := newTestRouter(&stubStore{})
	w := doRequest(router, "GET", "/api/v1/trends", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows []model.ScoredRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 2)
}

func TestGetHistory(t *testing.T) {
	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	st := &stubStore{history: []model.ScoredRow{
		{Time: t1, Product: "air fryer", TrendScore: 42},
	}}
	router := newTestRouter(st)

	w := doRequest(router, "GET", "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "air fryer")
}

func TestGetTopGainer(t *testing.T) {
	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Minute)
	st := &stubStore{history: []model.ScoredRow{
		{Time: t1, Product: "A", TrendScore: 50},
		{Time: t1, Product: "B", TrendScore: 30},
		{Time: t2, Product: "A", TrendScore: 55},
		{Time: t2, Product: "B", TrendScore: 45},
	}}
	router := newTestRouter(st)

	w := doRequest(router, "GET", "/api/v1/top-gainer", "")
	require.Equal(t, http.StatusOK, w.Code)

	var delta model.HistoryDelta
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &delta))
	assert.Equal(t, "B", delta.Product)
	assert.InDelta(t, 15, delta.Delta, 1e-9)
}

func TestGetTopGainer_NoData(t *testing.T) {
	router := newTestRouter(&stubStore{})
	w := doRequest(router, "GET", "/api/v1/top-gainer", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no data yet")
}

func TestGetAds(t *testing.T) {
	router := newTestRouter(&stubStore{})
	w := doRequest(router, "GET", "/api/v1/ads/smartwatch", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "creatives")
}

func TestSaveSwipe_RequiresProduct(t *testing.T) {
	router := newTestRouter(&stubStore{})
	w := doRequest(router, "POST", "/api/v1/swipes", `{"image_url":"https://x.example.com/a.jpg"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveAndExportSwipes(t *testing.T) {
	st := &stubStore{}
	router := newTestRouter(st)

	w := doRequest(router, "POST", "/api/v1/swipes",
		`{"product":"air fryer","image_url":"https://x.example.com/a.jpg","caption":"Crispy"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, "GET", "/api/v1/swipes/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	body := w.Body.String()
	assert.Contains(t, body, "id,product,image_url,source_url,caption,saved_at")
	assert.Contains(t, body, "air fryer")
	assert.Contains(t, body, "Crispy")
}
