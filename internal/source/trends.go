package source

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// SearchTrendSource queries an external search-interest service for a
// trailing window of daily samples and reports percent growth.
type SearchTrendSource struct {
	baseURL string
	client  *resty.Client
	days    int
}

// NewSearchTrendSource creates the search-interest adapter. timeout bounds
// each request so one slow provider cannot stall the cycle.
func NewSearchTrendSource(baseURL string, timeout time.Duration) *SearchTrendSource {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	return &SearchTrendSource{
		baseURL: baseURL,
		client:  client,
		days:    14,
	}
}

func (s *SearchTrendSource) Name() string           { return "search-trends" }
func (s *SearchTrendSource) Kind() model.SignalKind { return model.SignalSearch }

// interestResponse is the expected JSON shape from the trend service.
type interestResponse struct {
	Keyword string `json:"keyword"`
	Points  []struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	} `json:"points"`
}

// Fetch returns percent search-interest growth per keyword. Any failed
// keyword fails the whole call; the caller applies the fallback policy.
func (s *SearchTrendSource) Fetch(ctx context.Context, keywords []string) (map[string]float64, error) {
	out := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		var body interestResponse
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("keyword", kw).
			SetQueryParam("days", fmt.Sprintf("%d", s.days)).
			SetResult(&body).
			Get(s.baseURL + "/api/v1/interest")
		if err != nil {
			return nil, &SourceError{Kind: s.Kind(), Err: err}
		}
		if resp.StatusCode() != 200 {
			return nil, &SourceError{Kind: s.Kind(), Err: fmt.Errorf("status %d", resp.StatusCode())}
		}
		if len(body.Points) == 0 {
			return nil, &SourceError{Kind: s.Kind(), Err: fmt.Errorf("empty series for %q", kw)}
		}
		series := make([]float64, len(body.Points))
		for i, p := range body.Points {
			series[i] = p.Value
		}
		out[kw] = Growth(series)
	}
	return out, nil
}

// Growth computes percent growth of recent interest over prior interest.
// With at least 9 samples the recent window is the last 2 and the prior
// window the preceding 7; with fewer, the last sample is compared against
// the mean of all earlier ones.
func Growth(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	if len(series) == 1 {
		return 0
	}
	var recent, prior float64
	if len(series) >= 9 {
		recent = mean(series[len(series)-2:])
		prior = mean(series[len(series)-9 : len(series)-2])
	} else {
		recent = series[len(series)-1]
		prior = mean(series[:len(series)-1])
	}
	return (recent - prior) / (prior + 1e-9) * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
