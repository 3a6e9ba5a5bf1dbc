package news

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed data/test/headline.xml
var headlineXML []byte

func TestRSS_List(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("s"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, err := w.Write(headlineXML)
		require.NoError(t, err)
	}))
	defer ts.Close()

	r := NewRSS(slog.Default(), ts.Client())
	r.feedURL = ts.URL + "/rss/2.0/headline?s=%s"

	articles, err := r.List(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, articles, 2, "item without a title must be skipped")

	assert.Equal(t, "Apple unveils record iPhone sales for the quarter", articles[0].Title)
	assert.Equal(t, "The company reported better than expected iPhone revenue, "+
		"sending shares higher.", articles[0].Excerpt)
	assert.Equal(t, "https://finance.yahoo.com/news/apple-unveils-record-iphone-sales-123456.html",
		articles[0].URL)
	assert.Equal(t, "yahoo-rss", articles[0].Source)
}

func TestRSS_List_badFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("not a feed"))
		require.NoError(t, err)
	}))
	defer ts.Close()

	r := NewRSS(slog.Default(), ts.Client())
	r.feedURL = ts.URL + "/rss/2.0/headline?s=%s"

	_, err := r.List(context.Background(), "AAPL")
	require.Error(t, err)
}
