package report

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrozhkov/stockbrief/app/news"
	"github.com/vrozhkov/stockbrief/app/store"
)

func TestService_Analyze(t *testing.T) {
	narrator := &fakeNarrator{path: "/tmp/aapl_news.mp3"}
	st, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	svc := NewService(slog.Default(), Params{
		Sources: []news.Source{
			&fakeSource{name: "broken", err: errors.New("oh no")},
			&fakeSource{name: "good", articles: testArticles()},
		},
		Summarizer: Extractive{},
		Narrator:   narrator,
		Store:      st,
	})

	now := time.Date(2026, time.August, 21, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rep, err := svc.Analyze(context.Background(), Request{Ticker: "aapl"})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", rep.Ticker)
	assert.Equal(t, "en", rep.Language)
	assert.Equal(t, now, rep.CreatedAt)
	require.Len(t, rep.Articles, 3)

	for _, a := range rep.Articles {
		assert.NotEmpty(t, a.Sentiment)
		assert.NotEmpty(t, a.Topics)
	}

	assert.NotEmpty(t, rep.Summary)
	assert.NotEmpty(t, rep.SentimentDistribution)
	assert.Equal(t, "/tmp/aapl_news.mp3", rep.AudioPath)
	assert.Equal(t, "en", narrator.gotLang)
	assert.Equal(t, "aapl_news", narrator.gotName)

	// report must be persisted
	stored, err := st.Get(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, rep.Summary, stored.Summary)

	// second call must be served from cache without re-narrating
	again, err := svc.Analyze(context.Background(), Request{Ticker: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, rep.CreatedAt, again.CreatedAt)
	assert.Equal(t, 1, narrator.calls)
}

func TestService_Analyze_translated(t *testing.T) {
	narrator := &fakeNarrator{path: "/tmp/aapl_news.mp3"}
	translator := &fakeTranslator{result: "अनुवादित सारांश"}

	svc := NewService(slog.Default(), Params{
		Sources:    []news.Source{&fakeSource{name: "good", articles: testArticles()}},
		Summarizer: Extractive{},
		Translator: translator,
		Narrator:   narrator,
	})

	rep, err := svc.Analyze(context.Background(), Request{Ticker: "AAPL", Language: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "hi", rep.Language)
	assert.Equal(t, "अनुवादित सारांश", rep.TranslatedSummary)
	assert.Equal(t, rep.Summary, translator.gotText)
	assert.Equal(t, "अनुवादित सारांश", narrator.gotText)
	assert.Equal(t, "hi", narrator.gotLang)
	assert.Equal(t, "/tmp/aapl_news.mp3", rep.AudioPath)
}

func TestService_Analyze_translationFails(t *testing.T) {
	narrator := &fakeNarrator{path: "/tmp/aapl_news.mp3"}

	svc := NewService(slog.Default(), Params{
		Sources:    []news.Source{&fakeSource{name: "good", articles: testArticles()}},
		Summarizer: Extractive{},
		Translator: &fakeTranslator{err: errors.New("quota exceeded")},
		Narrator:   narrator,
	})

	rep, err := svc.Analyze(context.Background(), Request{Ticker: "AAPL", Language: "hi"})
	require.NoError(t, err, "translation failure must not fail the report")

	assert.Empty(t, rep.AudioPath)
	assert.Empty(t, rep.TranslatedSummary)
	assert.Equal(t, 0, narrator.calls)
}

func TestService_Analyze_summarizerFallsBack(t *testing.T) {
	svc := NewService(slog.Default(), Params{
		Sources:    []news.Source{&fakeSource{name: "good", articles: testArticles()}},
		Summarizer: &fakeSummarizer{err: errors.New("model is down")},
	})

	rep, err := svc.Analyze(context.Background(), Request{Ticker: "AAPL"})
	require.NoError(t, err)
	assert.Contains(t, rep.Summary, "Coverage of AAPL")
}

func TestService_Analyze_capsArticles(t *testing.T) {
	var many []store.Article
	for i := 0; i < 9; i++ {
		many = append(many, store.Article{
			Title:   "article about apple earnings",
			Excerpt: "apple earnings keep growing",
		})
	}

	svc := NewService(slog.Default(), Params{
		Sources:    []news.Source{&fakeSource{name: "good", articles: many}},
		Summarizer: Extractive{},
	})

	rep, err := svc.Analyze(context.Background(), Request{Ticker: "AAPL"})
	require.NoError(t, err)
	assert.Len(t, rep.Articles, 5)
}

func TestService_Analyze_noArticles(t *testing.T) {
	svc := NewService(slog.Default(), Params{
		Sources: []news.Source{
			&fakeSource{name: "empty"},
			&fakeSource{name: "broken", err: errors.New("oh no")},
		},
		Summarizer: Extractive{},
	})

	_, err := svc.Analyze(context.Background(), Request{Ticker: "AAPL"})
	assert.ErrorIs(t, err, ErrNoArticles)
}

func TestService_Analyze_invalidTicker(t *testing.T) {
	svc := NewService(slog.Default(), Params{Summarizer: Extractive{}})

	for _, ticker := range []string{"", "not a ticker", "ALPHABETSOUP11", "ab?"} {
		_, err := svc.Analyze(context.Background(), Request{Ticker: ticker})
		assert.ErrorIs(t, err, ErrInvalidTicker, "ticker %q", ticker)
	}
}

func testArticles() []store.Article {
	return []store.Article{
		{
			Title:   "Apple unveils record iPhone sales for the quarter",
			Excerpt: "The company reported fantastic iPhone revenue, sending shares higher.",
		},
		{
			Title:   "Analysts cut Apple forecasts on weak China demand",
			Excerpt: "Several brokerages trimmed their price targets, citing disappointing sales.",
		},
		{
			Title:   "Apple services growth offsets hardware slump",
			Excerpt: "Subscription revenue keeps climbing while device upgrades slow down.",
		},
	}
}

type fakeSource struct {
	name     string
	articles []store.Article
	err      error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) List(context.Context, string) ([]store.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	// copy, the service mutates articles in place
	out := make([]store.Article, len(f.articles))
	copy(out, f.articles)
	return out, nil
}

type fakeNarrator struct {
	path    string
	err     error
	calls   int
	gotText string
	gotLang string
	gotName string
}

func (f *fakeNarrator) Synthesize(_ context.Context, text, lang, name string) (string, error) {
	f.calls++
	f.gotText, f.gotLang, f.gotName = text, lang, name
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

type fakeTranslator struct {
	result  string
	err     error
	gotText string
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.gotText = text
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeSummarizer struct{ err error }

func (f *fakeSummarizer) Summarize(context.Context, Input) (string, error) {
	return "", f.err
}
