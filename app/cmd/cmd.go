// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/vrozhkov/stockbrief/app/news"
	"github.com/vrozhkov/stockbrief/app/report"
	"github.com/vrozhkov/stockbrief/app/speech"
	"github.com/vrozhkov/stockbrief/app/store"
	"github.com/vrozhkov/stockbrief/pkg/logx"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ServicesGroup contains flags shared by commands that build the pipeline.
type ServicesGroup struct {
	News struct {
		UserAgent   string        `long:"user-agent" env:"USER_AGENT" description:"user agent for scraping requests"`
		Timeout     time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"timeout for news requests"`
		MaxArticles int           `long:"max-articles" env:"MAX_ARTICLES" default:"5" description:"max articles per report"`
		FullText    bool          `long:"full-text" env:"FULL_TEXT" description:"fetch full article texts"`
	} `group:"news" namespace:"news" env-namespace:"NEWS"`

	OpenAI struct {
		Token     string        `long:"token" env:"TOKEN" description:"OpenAI token, empty disables the model summarizer"`
		MaxTokens int           `long:"max-tokens" env:"MAX_TOKENS" default:"1000" description:"max tokens for OpenAI"`
		Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"5m" description:"timeout for OpenAI calls"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	Translate struct {
		APIKey string `long:"api-key" env:"API_KEY" description:"Cloud Translation API key, empty disables translation"`
	} `group:"translate" namespace:"translate" env-namespace:"TRANSLATE"`

	Speech struct {
		Dir string `long:"dir" env:"DIR" default:"./audio" description:"directory for produced audio files"`
	} `group:"speech" namespace:"speech" env-namespace:"SPEECH"`

	CacheTTL time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"10m" description:"report cache TTL"`
}

// makeService builds the report pipeline out of the group's flags.
// Returned closers must be called on shutdown.
func (g ServicesGroup) makeService(ctx context.Context, lg *slog.Logger, st store.Interface) (*report.Service, []io.Closer, error) {
	ua := g.News.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	cl := requester.New(
		http.Client{Timeout: g.News.Timeout},
		middleware.Header("User-Agent", ua),
		logx.LoggingRoundTripper(
			lg.With(slog.String("prefix", "http")),
			logx.RoundTripperOpts{Level: slog.LevelDebug, SecretHeaders: []string{"Authorization"}},
		),
	).Client()

	var summarizer report.Summarizer = report.Extractive{}
	if g.OpenAI.Token != "" {
		summarizer = report.NewChatGPT(
			lg.With(slog.String("prefix", "chatgpt")),
			&http.Client{Timeout: g.OpenAI.Timeout},
			g.OpenAI.Token,
			g.OpenAI.MaxTokens,
		)
	}

	var closers []io.Closer
	var translator report.Translator
	if g.Translate.APIKey != "" {
		gt, err := speech.NewGoogleTranslator(ctx, g.Translate.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("make translator: %w", err)
		}
		translator = gt
		closers = append(closers, gt)
	}

	var fetcher *news.Fetcher
	if g.News.FullText {
		fetcher = news.NewFetcher(lg.With(slog.String("prefix", "fetcher")), cl)
	}

	svc := report.NewService(lg.With(slog.String("prefix", "report")), report.Params{
		Sources: []news.Source{
			news.NewScraper(lg.With(slog.String("prefix", "scraper")), cl),
			news.NewRSS(lg.With(slog.String("prefix", "rss")), cl),
		},
		Fetcher:     fetcher,
		Summarizer:  summarizer,
		Translator:  translator,
		Narrator:    speech.NewSynthesizer(g.Speech.Dir),
		Store:       st,
		MaxArticles: g.News.MaxArticles,
		CacheTTL:    g.CacheTTL,
	})

	return svc, closers, nil
}
