// Package bot exposes report generation through a telegram bot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vrozhkov/stockbrief/app/report"
	"github.com/vrozhkov/stockbrief/app/store"
)

// Analyzer runs the report pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req report.Request) (store.Report, error)
}

// Telegram is a bot that serves "/report TICKER [lang]" requests.
type Telegram struct {
	log *slog.Logger
	api *tgbotapi.BotAPI
	svc Analyzer
}

// NewTelegram creates a new telegram bot over the given token.
func NewTelegram(lg *slog.Logger, token string, svc Analyzer) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("make new api: %w", err)
	}

	api.Debug = lg.Enabled(context.TODO(), slog.LevelDebug)

	stdlibLogger := slog.NewLogLogger(lg.Handler(), slog.LevelWarn)
	stdlibLogger.SetPrefix("telegram-bot-api: ")

	if err = tgbotapi.SetLogger(stdlibLogger); err != nil {
		return nil, fmt.Errorf("set logger: %w", err)
	}

	return &Telegram{log: lg, api: api, svc: svc}, nil
}

// Run starts the bot update loop and blocks until ctx is canceled.
func (b *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.InfoContext(ctx, "started bot listener", slog.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram updates chan closed")
			}
			if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *Telegram) handle(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	switch {
	case text == "/start", text == "/help":
		b.send(ctx, chatID, "Send /report TICKER [language] to get a narrated news summary.\n"+
			"Example: /report AAPL hi")

	case strings.HasPrefix(text, "/report"):
		b.report(ctx, chatID, strings.Fields(text)[1:])

	default:
		b.send(ctx, chatID, "Unknown command, see /help.")
	}
}

func (b *Telegram) report(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.send(ctx, chatID, "Usage: /report TICKER [language]")
		return
	}

	req := report.Request{Ticker: args[0]}
	if len(args) > 1 {
		req.Language = args[1]
	}

	b.send(ctx, chatID, "I'm working on it, please wait...")

	rep, err := b.svc.Analyze(ctx, req)
	switch {
	case errors.Is(err, report.ErrInvalidTicker):
		b.send(ctx, chatID, fmt.Sprintf("%q doesn't look like a ticker symbol.", args[0]))
		return
	case errors.Is(err, report.ErrNoArticles):
		b.send(ctx, chatID, fmt.Sprintf("No news found for %s.", strings.ToUpper(args[0])))
		return
	case err != nil:
		b.log.ErrorContext(ctx, "failed to generate report", slog.Any("err", err))
		b.send(ctx, chatID, "Failed to generate the report, try again later.")
		return
	}

	sb := &strings.Builder{}
	_, _ = fmt.Fprintf(sb, "%s news summary\n\n%s\n\n", rep.Ticker, rep.Summary)
	if len(rep.CommonTopics) > 0 {
		_, _ = fmt.Fprintf(sb, "Common topics: %s\n", strings.Join(rep.CommonTopics, ", "))
	}
	for label, count := range rep.SentimentDistribution {
		_, _ = fmt.Fprintf(sb, "%s: %d  ", label, count)
	}

	b.send(ctx, chatID, sb.String())

	if rep.AudioPath != "" {
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(rep.AudioPath))
		audio.Title = fmt.Sprintf("%s news summary", rep.Ticker)
		if _, err := b.api.Send(audio); err != nil {
			b.log.WarnContext(ctx, "failed to send audio", slog.Any("err", err))
		}
	}
}

func (b *Telegram) send(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		b.log.WarnContext(ctx, "failed to send message", slog.Any("err", err))
	}
}
