// Package speech converts the report summary into translated speech.
package speech

import (
	"context"
	"fmt"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleTranslator translates text via the Cloud Translation API.
type GoogleTranslator struct {
	cl *translate.Client
}

// NewGoogleTranslator creates a translator authorized by the API key.
func NewGoogleTranslator(ctx context.Context, apiKey string) (*GoogleTranslator, error) {
	cl, err := translate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("make translate client: %w", err)
	}

	return &GoogleTranslator{cl: cl}, nil
}

// Translate converts text into the language given by its ISO code.
func (t *GoogleTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	target, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", lang, err)
	}

	resps, err := t.cl.Translate(ctx, []string{text}, target, nil)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	if len(resps) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	return resps[0].Text, nil
}

// Close closes the underlying client.
func (t *GoogleTranslator) Close() error { return t.cl.Close() }
