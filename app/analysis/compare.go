package analysis

import (
	"sort"

	"github.com/samber/lo"
	"github.com/vrozhkov/stockbrief/app/store"
)

// maxCommonTopics caps how many shared topics the comparison reports.
const maxCommonTopics = 5

// Comparison aggregates per-article sentiment and topics across articles.
type Comparison struct {
	SentimentDistribution map[string]int      `json:"sentiment_distribution"`
	CommonTopics          []string            `json:"common_topics"`
	UniqueTopics          map[string][]string `json:"unique_topics"`
}

// Compare builds a cross-article comparison out of analyzed articles.
func Compare(articles []store.Article) Comparison {
	cmp := Comparison{
		SentimentDistribution: map[string]int{},
		UniqueTopics:          map[string][]string{},
	}

	topicCount := map[string]int{}
	for _, a := range articles {
		cmp.SentimentDistribution[a.Sentiment]++
		for _, topic := range lo.Uniq(a.Topics) {
			topicCount[topic]++
		}
	}

	shared := lo.Filter(lo.Keys(topicCount), func(topic string, _ int) bool {
		return topicCount[topic] > 1
	})
	sort.Slice(shared, func(i, j int) bool {
		if topicCount[shared[i]] == topicCount[shared[j]] {
			return shared[i] < shared[j]
		}
		return topicCount[shared[i]] > topicCount[shared[j]]
	})
	if len(shared) > maxCommonTopics {
		shared = shared[:maxCommonTopics]
	}
	cmp.CommonTopics = shared

	for _, a := range articles {
		unique := lo.Filter(lo.Uniq(a.Topics), func(topic string, _ int) bool {
			return topicCount[topic] == 1
		})
		if len(unique) > 0 {
			cmp.UniqueTopics[a.Title] = unique
		}
	}

	return cmp
}
