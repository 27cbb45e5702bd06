package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// BuzzSource queries an external social-buzz service for a per-product
// buzz score.
type BuzzSource struct {
	baseURL string
	client  *resty.Client
}

// NewBuzzSource creates the social-buzz adapter.
func NewBuzzSource(baseURL string, timeout time.Duration) *BuzzSource {
	client := resty.New()
	client.SetTimeout(timeout)
	return &BuzzSource{baseURL: baseURL, client: client}
}

func (s *BuzzSource) Name() string           { return "social-buzz" }
func (s *BuzzSource) Kind() model.SignalKind { return model.SignalBuzz }

func (s *BuzzSource) Fetch(ctx context.Context, keywords []string) (map[string]float64, error) {
	out := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		var body struct {
			Score float64 `json:"score"`
		}
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("q", kw).
			SetResult(&body).
			Get(s.baseURL + "/api/v1/buzz")
		if err != nil {
			return nil, &SourceError{Kind: s.Kind(), Err: err}
		}
		if resp.StatusCode() != 200 {
			return nil, &SourceError{Kind: s.Kind(), Err: fmt.Errorf("status %d", resp.StatusCode())}
		}
		out[kw] = body.Score
	}
	return out, nil
}

// RandomBuzzSource is the declared-random stand-in used when no real buzz
// provider is configured. Scores are drawn from the social-buzz fallback
// range.
type RandomBuzzSource struct{}

func NewRandomBuzzSource() *RandomBuzzSource { return &RandomBuzzSource{} }

func (s *RandomBuzzSource) Name() string           { return "random-buzz" }
func (s *RandomBuzzSource) Kind() model.SignalKind { return model.SignalBuzz }

func (s *RandomBuzzSource) Fetch(_ context.Context, keywords []string) (map[string]float64, error) {
	r := RangeFor(model.SignalBuzz)
	out := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		out[kw] = r.Min + rand.Float64()*(r.Max-r.Min)
	}
	return out, nil
}
