// Package news contains sources that list news articles for a ticker
// and a fetcher that retrieves full article texts.
package news

import (
	"context"

	"github.com/vrozhkov/stockbrief/app/store"
)

// Source lists news articles for a given ticker symbol.
type Source interface {
	Name() string
	List(ctx context.Context, ticker string) ([]store.Article, error)
}
