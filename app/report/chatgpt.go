package report

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"text/template"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/sashabaranov/go-openai"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(prompt))

//go:generate moq -out mock_openai_client.go . OpenAIClient
// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatGPT condenses the article comparison into a short paragraph
// via the OpenAI chat completion API.
type ChatGPT struct {
	log               *slog.Logger
	cl                OpenAIClient
	model             string
	maxResponseTokens int
	cache             cache.Cache[string, string]
}

// NewChatGPT creates new ChatGPT summarizer.
func NewChatGPT(lg *slog.Logger, cl *http.Client, token string, maxResponseTokens int) *ChatGPT {
	config := openai.DefaultConfig(token)
	config.HTTPClient = cl

	client := openai.NewClientWithConfig(config)

	return &ChatGPT{
		log:               lg,
		cl:                &loggingClient{log: lg, cl: client},
		model:             openai.GPT3Dot5Turbo,
		maxResponseTokens: maxResponseTokens,
		cache: cache.NewCache[string, string]().
			WithLRU().
			WithMaxKeys(100),
	}
}

// maxRequestTokens is a maximum number of tokens that can be sent to OpenAI.
const maxRequestTokens = 4097

// ErrTooManyTokens is returned when the assembled prompt is too long.
var ErrTooManyTokens = fmt.Errorf("too many tokens")

// Summarize produces a comparative summary paragraph for the report.
func (s *ChatGPT) Summarize(ctx context.Context, in Input) (string, error) {
	buf := &strings.Builder{}
	if err := promptTmpl.Execute(buf, in); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	if resp, ok := s.cache.Get(buf.String()); ok {
		return resp, nil
	}

	totalTokens := strings.Count(buf.String(), " ") + 1
	if totalTokens > maxRequestTokens {
		return "", ErrTooManyTokens
	}

	req := openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxResponseTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buf.String()},
		},
	}

	resp, err := s.cl.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.cache.Set(buf.String(), result, 0)
	return result, nil
}

type loggingClient struct {
	log *slog.Logger
	cl  OpenAIClient
}

func (l *loggingClient) CreateChatCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	l.log.DebugContext(ctx, "sending request to chatGPT")
	resp, err := l.cl.CreateChatCompletion(ctx, req)
	l.log.DebugContext(ctx, "response received from chatGPT")
	return resp, err
}
