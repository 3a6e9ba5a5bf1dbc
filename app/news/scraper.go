package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/vrozhkov/stockbrief/app/store"
)

const defaultQuoteNewsURL = "https://finance.yahoo.com/quote/%s/news/"

// Scraper extracts article links and snippets from the Yahoo Finance
// quote news page. The markup is brittle, so callers should be prepared
// for an empty result and fall back to another source.
type Scraper struct {
	log     *slog.Logger
	cl      *http.Client
	pageURL string
}

// NewScraper creates a new quote news page scraper.
func NewScraper(lg *slog.Logger, cl *http.Client) *Scraper {
	return &Scraper{log: lg, cl: cl, pageURL: defaultQuoteNewsURL}
}

// Name returns the source name.
func (s *Scraper) Name() string { return "yahoo-finance" }

// List fetches the news page for the ticker and extracts articles from it.
func (s *Scraper) List(ctx context.Context, ticker string) ([]store.Article, error) {
	u := fmt.Sprintf(s.pageURL, ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.WarnContext(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	base, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	var articles []store.Article

	// each story is an anchor wrapping a clamped title and snippet
	doc.Find("div.holder h3.clamp").Each(func(_ int, h *goquery.Selection) {
		title := strings.TrimSpace(h.Text())
		if title == "" {
			return
		}

		article := store.Article{Title: title, Source: s.Name()}

		if link := h.ParentsFiltered("a").First(); link.Length() > 0 {
			article.URL = resolveRef(base, link.AttrOr("href", ""))
		}
		if snippet := h.Parent().Find("p.clamp").First(); snippet.Length() > 0 {
			article.Excerpt = strings.TrimSpace(snippet.Text())
		}

		articles = append(articles, article)
	})

	articles = lo.UniqBy(articles, func(a store.Article) string { return a.Title })

	s.log.DebugContext(ctx, "scraped news page",
		slog.String("ticker", ticker), slog.Int("articles", len(articles)))

	return articles, nil
}

func resolveRef(base *url.URL, href string) string {
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
