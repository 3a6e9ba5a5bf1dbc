// Package store contains entities and services to process and contain them.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Interface defines methods for the report store.
type Interface interface {
	Put(ctx context.Context, r Report) error
	Get(ctx context.Context, ticker string) (Report, error)
	List(ctx context.Context, req ListRequest) ([]Report, error)
	Delete(ctx context.Context, ticker string) error
}

// ListRequest defines parameters for listing reports from store.
type ListRequest struct {
	Limit int // zero means no limit
}

// Sentiment labels assigned to articles.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Article is a single scraped news article with its analysis attached.
type Article struct {
	URL       string   `json:"url"`
	Source    string   `json:"source"`
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content,omitempty"`
	Sentiment string   `json:"sentiment"`
	Score     float64  `json:"score"`
	Topics    []string `json:"topics"`
}

// Text returns the text the analysis stages run over, preferring the full
// article body over the listing snippet.
func (a Article) Text() string {
	if a.Content != "" {
		return a.Title + " " + a.Content
	}
	return a.Title + " " + a.Excerpt
}

// Report is the result of analyzing news for a single ticker.
type Report struct {
	Ticker                string              `json:"ticker"`
	Language              string              `json:"language"`
	Articles              []Article           `json:"articles"`
	SentimentDistribution map[string]int      `json:"sentiment_distribution"`
	CommonTopics          []string            `json:"common_topics"`
	UniqueTopics          map[string][]string `json:"unique_topics"`
	Summary               string              `json:"summary"`
	TranslatedSummary     string              `json:"translated_summary,omitempty"`
	AudioPath             string              `json:"audio_path,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
}
