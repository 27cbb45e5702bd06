package ads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) FetchCreatives(_ context.Context, product string) ([]model.AdCreative, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []model.AdCreative{{ImageURL: "https://img.example.com/" + product + ".jpg"}}, nil
}

func TestCache_ServesWithinFreshnessWindow(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, time.Minute)

	first := c.Creatives(context.Background(), "air fryer")
	require.Len(t, first, 1)
	second := c.Creatives(context.Background(), "air fryer")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls)
}

func TestCache_RefetchesAfterExpiry(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, time.Nanosecond)

	c.Creatives(context.Background(), "air fryer")
	time.Sleep(time.Millisecond)
	c.Creatives(context.Background(), "air fryer")
	assert.Equal(t, 2, f.calls)
}

func TestCache_FetchFailureServesEmpty(t *testing.T) {
	f := &countingFetcher{err: errors.New("ad library down")}
	c := NewCache(f, time.Minute)

	creatives := c.Creatives(context.Background(), "air fryer")
	assert.Empty(t, creatives)
}

func TestPlaceholderFetcher(t *testing.T) {
	creatives, err := PlaceholderFetcher{}.FetchCreatives(context.Background(), "air fryer")
	require.NoError(t, err)
	require.Len(t, creatives, 1)
	assert.Contains(t, creatives[0].ImageURL, "air+fryer")
}
