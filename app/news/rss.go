package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/vrozhkov/stockbrief/app/store"
)

const defaultHeadlineFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// RSS lists news for a ticker from the Yahoo Finance headline feed.
type RSS struct {
	log     *slog.Logger
	parser  *gofeed.Parser
	feedURL string
}

// NewRSS creates a new RSS source over the given client.
func NewRSS(lg *slog.Logger, cl *http.Client) *RSS {
	parser := gofeed.NewParser()
	parser.Client = cl

	return &RSS{log: lg, parser: parser, feedURL: defaultHeadlineFeedURL}
}

// Name returns the source name.
func (r *RSS) Name() string { return "yahoo-rss" }

// List fetches and parses the headline feed for the ticker.
func (r *RSS) List(ctx context.Context, ticker string) ([]store.Article, error) {
	feed, err := r.parser.ParseURLWithContext(fmt.Sprintf(r.feedURL, ticker), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]store.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		articles = append(articles, store.Article{
			URL:     item.Link,
			Source:  r.Name(),
			Title:   title,
			Excerpt: strings.TrimSpace(item.Description),
		})
	}

	r.log.DebugContext(ctx, "fetched headline feed",
		slog.String("ticker", ticker), slog.Int("articles", len(articles)))

	return articles, nil
}
