package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
)

// defaultTopicsPerDoc is how many top-weighted terms are reported per article.
const defaultTopicsPerDoc = 5

// TopicExtractor selects the most important terms of each document by
// TF-IDF weight over the whole article corpus.
type TopicExtractor struct {
	PerDoc int
}

// NewTopicExtractor creates a topic extractor with default settings.
func NewTopicExtractor() *TopicExtractor {
	return &TopicExtractor{PerDoc: defaultTopicsPerDoc}
}

// Topics returns the top terms for every document, in corpus order.
func (t *TopicExtractor) Topics(docs []string) ([][]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	vectoriser := nlp.NewCountVectoriser(stopWords...)
	transformer := nlp.NewTfidfTransformer()
	pipeline := nlp.NewPipeline(vectoriser, transformer)

	matrix, err := pipeline.FitTransform(docs...)
	if err != nil {
		return nil, fmt.Errorf("fit corpus: %w", err)
	}

	type weighted struct {
		term   string
		weight float64
	}

	result := make([][]string, len(docs))
	for j := range docs {
		terms := make([]weighted, 0, len(vectoriser.Vocabulary))
		for term, idx := range vectoriser.Vocabulary {
			if w := matrix.At(idx, j); w > 0 {
				terms = append(terms, weighted{term: term, weight: w})
			}
		}

		sort.Slice(terms, func(a, b int) bool {
			if terms[a].weight == terms[b].weight {
				return terms[a].term < terms[b].term
			}
			return terms[a].weight > terms[b].weight
		})

		if len(terms) > t.PerDoc {
			terms = terms[:t.PerDoc]
		}

		topics := make([]string, len(terms))
		for i, tw := range terms {
			topics[i] = tw.term
		}

		// degenerate corpus, e.g. a single document, can zero out every
		// idf weight; fall back to plain term frequency
		if len(topics) == 0 {
			topics = t.byFrequency(docs[j])
		}

		result[j] = topics
	}

	return result, nil
}

var termRe = regexp.MustCompile(`[a-z][a-z']+`)

func (t *TopicExtractor) byFrequency(doc string) []string {
	counts := map[string]int{}
	for _, term := range termRe.FindAllString(strings.ToLower(doc), -1) {
		if isStopWord(term) {
			continue
		}
		counts[term]++
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}

	sort.Slice(terms, func(a, b int) bool {
		if counts[terms[a]] == counts[terms[b]] {
			return terms[a] < terms[b]
		}
		return counts[terms[a]] > counts[terms[b]]
	})

	if len(terms) > t.PerDoc {
		terms = terms[:t.PerDoc]
	}

	return terms
}

func isStopWord(term string) bool {
	for _, sw := range stopWords {
		if term == sw {
			return true
		}
	}
	return false
}

// english stop words, the subset of sklearn's list that actually shows up
// in financial news snippets
var stopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "could", "did",
	"do", "does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"him", "his", "how", "i", "if", "in", "into", "is", "it", "its", "just",
	"more", "most", "my", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "out", "over", "own", "s", "said",
	"same", "she", "should", "so", "some", "such", "t", "than", "that",
	"the", "their", "them", "then", "there", "these", "they", "this",
	"those", "through", "to", "too", "under", "until", "up", "very", "was",
	"we", "were", "what", "when", "where", "which", "while", "who", "whom",
	"why", "will", "with", "would", "you", "your", "yours",
}
