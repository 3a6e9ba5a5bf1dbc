package news

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

var spaceRe = regexp.MustCompile(`\s+`)

// Extractor extracts the readable text of an article from an HTML page.
type Extractor struct{}

// NewExtractor creates new Extractor.
func NewExtractor() Extractor { return Extractor{} }

// Extract extracts the article text from an HTML page.
func (e Extractor) Extract(rd io.Reader, pageURL *url.URL) (string, error) {
	doc, err := readability.FromReader(rd, pageURL)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	return e.sanitize(doc.TextContent), nil
}

func (e Extractor) sanitize(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	// nbsp
	s = strings.ReplaceAll(s, "\u00a0", " ")

	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
