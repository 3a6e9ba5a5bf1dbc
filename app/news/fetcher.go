package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Fetcher retrieves the full text of a linked article.
type Fetcher struct {
	log       *slog.Logger
	cl        *http.Client
	extractor Extractor
}

// NewFetcher creates a new article fetcher.
func NewFetcher(lg *slog.Logger, cl *http.Client) *Fetcher {
	return &Fetcher{log: lg, cl: cl, extractor: NewExtractor()}
}

// Fetch downloads the article page and extracts its readable text.
func (f *Fetcher) Fetch(ctx context.Context, u string) (string, error) {
	f.log.DebugContext(ctx, "fetching article", slog.String("url", u))

	pageURL, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.cl.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.log.WarnContext(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return "", fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	text, err := f.extractor.Extract(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	return text, nil
}
