// Package report orchestrates the news analysis pipeline: collect
// articles, score sentiment, extract topics, compare, summarize,
// translate and narrate.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/samber/lo"
	"github.com/vrozhkov/stockbrief/app/analysis"
	"github.com/vrozhkov/stockbrief/app/news"
	"github.com/vrozhkov/stockbrief/app/store"
)

// ErrNoArticles is returned when no source yields any articles for a ticker.
var ErrNoArticles = errors.New("no articles found")

// ErrInvalidTicker is returned when the ticker symbol fails validation.
var ErrInvalidTicker = errors.New("invalid ticker")

var tickerRe = regexp.MustCompile(`^[A-Z.\-]{1,10}$`)

// Summarizer condenses the comparison into a short paragraph.
type Summarizer interface {
	Summarize(ctx context.Context, in Input) (string, error)
}

// Input is everything a summarizer may use.
type Input struct {
	Ticker     string
	Articles   []store.Article
	Comparison analysis.Comparison
}

// Translator converts text into the requested output language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// Narrator converts text into an audio file and returns its path.
type Narrator interface {
	Synthesize(ctx context.Context, text, lang, name string) (string, error)
}

// Request describes a single report generation call.
type Request struct {
	Ticker     string
	Language   string // ISO code, empty means english
	OutputName string // audio file name without extension, defaults to {ticker}_news
}

// Params contains dependencies and settings for the service.
type Params struct {
	Sources     []news.Source
	Fetcher     *news.Fetcher // nil disables full-text retrieval
	Summarizer  Summarizer
	Translator  Translator // nil disables translation
	Narrator    Narrator   // nil disables speech
	Store       store.Interface
	MaxArticles int
	CacheTTL    time.Duration
}

// Service is a main application service.
type Service struct {
	log       *slog.Logger
	sentiment *analysis.Sentiment
	topics    *analysis.TopicExtractor
	cache     cache.Cache[string, store.Report]
	now       func() time.Time
	Params
}

// NewService creates new service.
func NewService(lg *slog.Logger, p Params) *Service {
	if p.MaxArticles <= 0 {
		p.MaxArticles = 5
	}
	if p.CacheTTL <= 0 {
		p.CacheTTL = 10 * time.Minute
	}

	return &Service{
		log:       lg,
		sentiment: analysis.NewSentiment(),
		topics:    analysis.NewTopicExtractor(),
		cache: cache.NewCache[string, store.Report]().
			WithLRU().
			WithMaxKeys(100).
			WithTTL(p.CacheTTL),
		now:    time.Now,
		Params: p,
	}
}

// CacheStat returns report cache stats.
func (s *Service) CacheStat() cache.Stats { return s.cache.Stat() }

// Analyze runs the whole pipeline for a ticker and returns the report.
func (s *Service) Analyze(ctx context.Context, req Request) (store.Report, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if !tickerRe.MatchString(ticker) {
		return store.Report{}, fmt.Errorf("%w: %q", ErrInvalidTicker, req.Ticker)
	}

	lang := req.Language
	if lang == "" {
		lang = "en"
	}

	key := ticker + "/" + lang
	if rep, ok := s.cache.Get(key); ok {
		return rep, nil
	}

	articles, err := s.collect(ctx, ticker)
	if err != nil {
		return store.Report{}, err
	}
	if len(articles) > s.MaxArticles {
		articles = articles[:s.MaxArticles]
	}

	s.analyze(ctx, articles)

	cmp := analysis.Compare(articles)

	in := Input{Ticker: ticker, Articles: articles, Comparison: cmp}
	summary, err := s.Summarizer.Summarize(ctx, in)
	if err != nil {
		s.log.WarnContext(ctx, "summarizer failed, falling back to extractive",
			slog.Any("err", err))
		summary, _ = Extractive{}.Summarize(ctx, in)
	}

	rep := store.Report{
		Ticker:                ticker,
		Language:              lang,
		Articles:              articles,
		SentimentDistribution: cmp.SentimentDistribution,
		CommonTopics:          cmp.CommonTopics,
		UniqueTopics:          cmp.UniqueTopics,
		Summary:               summary,
		CreatedAt:             s.now(),
	}

	s.narrate(ctx, &rep, req.OutputName)

	if s.Store != nil {
		if err := s.Store.Put(ctx, rep); err != nil {
			s.log.WarnContext(ctx, "failed to persist report", slog.Any("err", err))
		}
	}

	s.cache.Set(key, rep, 0)
	return rep, nil
}

// collect asks sources in order and returns the first non-empty result.
func (s *Service) collect(ctx context.Context, ticker string) ([]store.Article, error) {
	for _, src := range s.Sources {
		articles, err := src.List(ctx, ticker)
		if err != nil {
			s.log.WarnContext(ctx, "source failed",
				slog.String("source", src.Name()), slog.Any("err", err))
			continue
		}
		if len(articles) > 0 {
			return articles, nil
		}
		s.log.DebugContext(ctx, "source returned nothing",
			slog.String("source", src.Name()), slog.String("ticker", ticker))
	}

	return nil, ErrNoArticles
}

// maxContentChars bounds how much of a fetched article participates
// in scoring, long tails add little to sentiment or topics.
const maxContentChars = 4000

func (s *Service) analyze(ctx context.Context, articles []store.Article) {
	if s.Fetcher != nil {
		for i := range articles {
			if articles[i].URL == "" {
				continue
			}

			text, err := s.Fetcher.Fetch(ctx, articles[i].URL)
			if err != nil {
				s.log.WarnContext(ctx, "failed to fetch article, keeping snippet",
					slog.String("url", articles[i].URL), slog.Any("err", err))
				continue
			}
			if len(text) > maxContentChars {
				text = text[:maxContentChars]
			}
			articles[i].Content = text
		}
	}

	for i := range articles {
		articles[i].Sentiment, articles[i].Score = s.sentiment.Score(articles[i].Text())
	}

	docs := lo.Map(articles, func(a store.Article, _ int) string { return a.Text() })
	topics, err := s.topics.Topics(docs)
	if err != nil {
		s.log.WarnContext(ctx, "topic extraction failed", slog.Any("err", err))
		return
	}
	for i := range articles {
		articles[i].Topics = topics[i]
	}
}

// narrate translates the summary if needed and synthesizes the audio.
// Failures here are non-fatal: the report is returned without audio.
func (s *Service) narrate(ctx context.Context, rep *store.Report, name string) {
	if s.Narrator == nil {
		return
	}

	text := rep.Summary
	if rep.Language != "en" {
		if s.Translator == nil {
			s.log.WarnContext(ctx, "no translator configured, skipping audio",
				slog.String("lang", rep.Language))
			return
		}

		translated, err := s.Translator.Translate(ctx, rep.Summary, rep.Language)
		if err != nil {
			s.log.WarnContext(ctx, "translation failed, skipping audio", slog.Any("err", err))
			return
		}
		rep.TranslatedSummary = translated
		text = translated
	}

	if name == "" {
		name = fmt.Sprintf("%s_news", strings.ToLower(rep.Ticker))
	}

	path, err := s.Narrator.Synthesize(ctx, text, rep.Language, name)
	if err != nil {
		s.log.WarnContext(ctx, "speech synthesis failed", slog.Any("err", err))
		return
	}
	rep.AudioPath = path
}
