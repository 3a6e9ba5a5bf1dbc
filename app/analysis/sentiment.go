// Package analysis scores article sentiment, extracts topic terms and
// builds cross-article comparisons.
package analysis

import (
	"github.com/jonreiter/govader"
	"github.com/vrozhkov/stockbrief/app/store"
)

// compound score cutoffs for the polarity labels
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Sentiment scores text polarity with the VADER lexicon model.
type Sentiment struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentiment creates a new sentiment scorer.
func NewSentiment() *Sentiment {
	return &Sentiment{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the polarity label and the compound score for the text.
func (s *Sentiment) Score(text string) (label string, compound float64) {
	scores := s.analyzer.PolarityScores(text)

	switch {
	case scores.Compound >= positiveThreshold:
		return store.SentimentPositive, scores.Compound
	case scores.Compound <= negativeThreshold:
		return store.SentimentNegative, scores.Compound
	default:
		return store.SentimentNeutral, scores.Compound
	}
}
