package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrozhkov/stockbrief/app/analysis"
	"github.com/vrozhkov/stockbrief/app/store"
)

func TestExtractive_Summarize(t *testing.T) {
	got, err := Extractive{}.Summarize(context.Background(), summarizeInput())
	require.NoError(t, err)

	assert.Contains(t, got, "Coverage of AAPL is mostly positive")
	assert.Contains(t, got, "1 of 2 articles")
	assert.Contains(t, got, "Recurring themes: iphone.")
	assert.Contains(t, got, "The company reported better than expected iPhone revenue.")
}

func TestExtractive_Summarize_titleFallback(t *testing.T) {
	in := Input{
		Ticker:     "MSFT",
		Articles:   []store.Article{{Title: "Microsoft cloud growth", Sentiment: store.SentimentNeutral}},
		Comparison: analysis.Comparison{SentimentDistribution: map[string]int{store.SentimentNeutral: 1}},
	}

	got, err := Extractive{}.Summarize(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, got, "Microsoft cloud growth")
	assert.Contains(t, got, "mostly neutral")
}

func TestExtractive_Summarize_empty(t *testing.T) {
	got, err := Extractive{}.Summarize(context.Background(), Input{Ticker: "AAPL"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
