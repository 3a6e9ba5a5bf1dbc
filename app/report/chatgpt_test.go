package report

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/jessevdk/go-flags"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrozhkov/stockbrief/app/analysis"
	"github.com/vrozhkov/stockbrief/app/store"
)

func TestChatGPT_Integration(t *testing.T) {
	var opts struct {
		Token string `env:"OPENAI_TOKEN"`
	}

	_, err := flags.NewParser(&opts, flags.Default|flags.IgnoreUnknown).Parse()
	require.NoError(t, err)

	if opts.Token == "" {
		t.Skip("OPENAI_TOKEN is not set")
	}

	cl := NewChatGPT(slog.Default(), &http.Client{}, opts.Token, 1000)

	resp, err := cl.Summarize(context.Background(), summarizeInput())
	require.NoError(t, err)

	t.Log(resp)
}

func TestChatGPT_Summarize(t *testing.T) {
	mock := &OpenAIClientMock{
		CreateChatCompletionFunc: func(
			_ context.Context,
			req openai.ChatCompletionRequest,
		) (openai.ChatCompletionResponse, error) {
			assert.Equal(t, openai.GPT3Dot5Turbo, req.Model)
			assert.Equal(t, 1000, req.MaxTokens)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)

			content := req.Messages[0].Content
			assert.Contains(t, content, "AAPL")
			assert.Contains(t, content, "Apple unveils record iPhone sales")
			assert.Contains(t, content, "Sentiment distribution:")
			assert.Contains(t, content, "iphone, revenue")

			return openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{{
					Message: openai.ChatCompletionMessage{
						Content: "Coverage is broadly upbeat about Apple.",
					},
				}},
			}, nil
		},
	}

	cl := &ChatGPT{
		log:               slog.Default(),
		cl:                mock,
		model:             openai.GPT3Dot5Turbo,
		maxResponseTokens: 1000,
		cache:             cache.NewCache[string, string](),
	}

	resp, err := cl.Summarize(context.Background(), summarizeInput())
	require.NoError(t, err)
	assert.Equal(t, "Coverage is broadly upbeat about Apple.", resp)

	// second call with the same input must hit the cache
	_, err = cl.Summarize(context.Background(), summarizeInput())
	require.NoError(t, err)
	assert.Len(t, mock.CreateChatCompletionCalls(), 1)
}

func TestChatGPT_Summarize_noChoices(t *testing.T) {
	cl := &ChatGPT{
		log: slog.Default(),
		cl: &OpenAIClientMock{
			CreateChatCompletionFunc: func(
				context.Context, openai.ChatCompletionRequest,
			) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, nil
			},
		},
		model:             openai.GPT3Dot5Turbo,
		maxResponseTokens: 1000,
		cache:             cache.NewCache[string, string](),
	}

	_, err := cl.Summarize(context.Background(), summarizeInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func summarizeInput() Input {
	return Input{
		Ticker: "AAPL",
		Articles: []store.Article{
			{
				Title:     "Apple unveils record iPhone sales",
				Excerpt:   "The company reported better than expected iPhone revenue.",
				Sentiment: store.SentimentPositive,
				Topics:    []string{"iphone", "revenue"},
			},
			{
				Title:     "Analysts cut Apple forecasts",
				Excerpt:   "Several brokerages trimmed their price targets.",
				Sentiment: store.SentimentNegative,
				Topics:    []string{"iphone", "forecasts"},
			},
		},
		Comparison: analysis.Comparison{
			SentimentDistribution: map[string]int{
				store.SentimentPositive: 1,
				store.SentimentNegative: 1,
			},
			CommonTopics: []string{"iphone"},
		},
	}
}
