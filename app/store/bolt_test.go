package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBolt_PutGet(t *testing.T) {
	b := prepBolt(t)

	rep := Report{
		Ticker:   "AAPL",
		Language: "en",
		Articles: []Article{{
			Title:     "Apple unveils record iPhone sales",
			Sentiment: SentimentPositive,
			Score:     0.65,
			Topics:    []string{"iphone", "sales"},
		}},
		SentimentDistribution: map[string]int{SentimentPositive: 1},
		CommonTopics:          []string{"iphone"},
		Summary:               "mostly positive coverage",
		CreatedAt:             time.Date(2026, time.August, 21, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, b.Put(context.Background(), rep))

	got, err := b.Get(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, rep, got)
}

func TestBolt_Put_overwritesLatest(t *testing.T) {
	b := prepBolt(t)

	old := Report{Ticker: "AAPL", Summary: "old",
		CreatedAt: time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)}
	fresh := Report{Ticker: "AAPL", Summary: "fresh",
		CreatedAt: time.Date(2026, time.August, 21, 12, 0, 0, 0, time.UTC)}

	require.NoError(t, b.Put(context.Background(), old))
	require.NoError(t, b.Put(context.Background(), fresh))

	got, err := b.Get(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Summary)
}

func TestBolt_List(t *testing.T) {
	b := prepBolt(t)

	for i, ticker := range []string{"AAPL", "MSFT", "GOOG"} {
		require.NoError(t, b.Put(context.Background(), Report{
			Ticker:    ticker,
			CreatedAt: time.Date(2026, time.August, 19+i, 12, 0, 0, 0, time.UTC),
		}))
	}

	reps, err := b.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	require.Len(t, reps, 3)

	// newest first
	assert.Equal(t, "GOOG", reps[0].Ticker)
	assert.Equal(t, "MSFT", reps[1].Ticker)
	assert.Equal(t, "AAPL", reps[2].Ticker)

	limited, err := b.List(context.Background(), ListRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "GOOG", limited[0].Ticker)
}

func TestBolt_Delete(t *testing.T) {
	b := prepBolt(t)

	require.NoError(t, b.Put(context.Background(), Report{Ticker: "AAPL"}))
	require.NoError(t, b.Delete(context.Background(), "AAPL"))

	_, err := b.Get(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBolt_Get_notFound(t *testing.T) {
	b := prepBolt(t)

	_, err := b.Get(context.Background(), "TSLA")
	assert.ErrorIs(t, err, ErrNotFound)
}

func prepBolt(t *testing.T) *Bolt {
	b, err := NewBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Close()) })
	return b
}
