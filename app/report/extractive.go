package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/vrozhkov/stockbrief/app/store"
)

// Extractive is a summarizer that needs no model: it stitches the leading
// snippet together with the aggregate numbers. Used when no OpenAI token
// is configured and as a fallback when the model call fails.
type Extractive struct{}

// Summarize builds a deterministic summary paragraph from the comparison.
func (Extractive) Summarize(_ context.Context, in Input) (string, error) {
	sb := &strings.Builder{}

	total := len(in.Articles)
	label, count := dominantSentiment(in.Comparison.SentimentDistribution)
	if total > 0 && label != "" {
		_, _ = fmt.Fprintf(sb, "Coverage of %s is mostly %s, with %d of %d articles scored as such. ",
			in.Ticker, label, count, total)
	}

	if len(in.Comparison.CommonTopics) > 0 {
		_, _ = fmt.Fprintf(sb, "Recurring themes: %s. ",
			strings.Join(in.Comparison.CommonTopics, ", "))
	}

	if total > 0 {
		if excerpt := in.Articles[0].Excerpt; excerpt != "" {
			_, _ = sb.WriteString(excerpt)
		} else {
			_, _ = sb.WriteString(in.Articles[0].Title)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func dominantSentiment(dist map[string]int) (label string, count int) {
	for _, l := range []string{store.SentimentPositive, store.SentimentNegative, store.SentimentNeutral} {
		if dist[l] > count {
			label, count = l, dist[l]
		}
	}
	return label, count
}
