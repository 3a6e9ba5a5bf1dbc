package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vrozhkov/stockbrief/app/report"
)

// Analyze is a command to generate a single report and print it to stdout.
type Analyze struct {
	ServicesGroup

	Ticker string `long:"ticker" short:"t" env:"TICKER" required:"true" description:"ticker symbol"`
	Lang   string `long:"lang" short:"l" default:"en" description:"output language code"`
	Out    string `long:"out" short:"o" env:"OUT" description:"audio file name, defaults to {ticker}_news"`
}

// Execute runs the command.
func (a Analyze) Execute(_ []string) error {
	lg := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closers, err := a.makeService(ctx, lg, nil)
	if err != nil {
		return fmt.Errorf("make service: %w", err)
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				lg.Error("close service dependency", slog.Any("err", err))
			}
		}
	}()

	rep, err := svc.Analyze(ctx, report.Request{
		Ticker:     a.Ticker,
		Language:   a.Lang,
		OutputName: a.Out,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", a.Ticker, err)
	}

	fmt.Printf("%s news report (%s)\n\n", rep.Ticker, rep.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Summary: %s\n\n", rep.Summary)
	if rep.TranslatedSummary != "" {
		fmt.Printf("Translated (%s): %s\n\n", rep.Language, rep.TranslatedSummary)
	}

	fmt.Print("Sentiment:")
	for label, count := range rep.SentimentDistribution {
		fmt.Printf(" %s=%d", label, count)
	}
	fmt.Println()

	if len(rep.CommonTopics) > 0 {
		fmt.Printf("Common topics: %s\n", strings.Join(rep.CommonTopics, ", "))
	}
	fmt.Println()

	for i, article := range rep.Articles {
		fmt.Printf("%d. %s [%s, %.3f]\n", i+1, article.Title, article.Sentiment, article.Score)
		if len(article.Topics) > 0 {
			fmt.Printf("   topics: %s\n", strings.Join(article.Topics, ", "))
		}
		if article.URL != "" {
			fmt.Printf("   %s\n", article.URL)
		}
	}

	if rep.AudioPath != "" {
		fmt.Printf("\nAudio saved as: %s\n", rep.AudioPath)
	}

	return nil
}
