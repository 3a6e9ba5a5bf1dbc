package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/vrozhkov/stockbrief/app/bot"
	"github.com/vrozhkov/stockbrief/app/report"
	"github.com/vrozhkov/stockbrief/app/store"
	"github.com/vrozhkov/stockbrief/app/web"
	"golang.org/x/sync/errgroup"
)

// Server is a command to run the web UI with the optional telegram bot
// and watchlist scheduler.
type Server struct {
	ServicesGroup

	Addr      string `long:"addr" env:"ADDR" default:":8080" description:"address to listen on"`
	StorePath string `long:"store-path" env:"STORE_PATH" default:"./var" description:"parent dir for bolt files"`

	Telegram struct {
		Token string `long:"token" env:"TOKEN" description:"telegram token, empty disables the bot"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	Watchlist struct {
		Tickers  []string `long:"ticker" env:"TICKERS" env-delim:"," description:"tickers to refresh on schedule"`
		Schedule string   `long:"schedule" env:"SCHEDULE" default:"@every 1h" description:"cron schedule for watchlist refresh"`
	} `group:"watchlist" namespace:"watchlist" env-namespace:"WATCHLIST"`
}

// Execute runs the command.
func (s Server) Execute(_ []string) error {
	lg := slog.Default()

	if err := os.MkdirAll(s.StorePath, 0750); err != nil {
		return fmt.Errorf("make store dir: %w", err)
	}

	st, err := store.NewBolt(s.StorePath)
	if err != nil {
		return fmt.Errorf("make store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			lg.Error("close bolt store", slog.Any("err", err))
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	svc, closers, err := s.makeService(ctx, lg, st)
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

	srv := &web.Server{
		Logger:   lg.With(slog.String("prefix", "web")),
		Service:  svc,
		Store:    st,
		AudioDir: s.Speech.Dir,
	}

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-sig:
			slog.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	ewg.Go(func() error {
		lg.Info("starting web server", slog.String("addr", s.Addr))
		if err := srv.Run(ctx, s.Addr); err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		lg.Warn("web server stopped")
		return nil
	})

	if s.Telegram.Token != "" {
		tg, err := bot.NewTelegram(lg.With(slog.String("prefix", "telegram")), s.Telegram.Token, svc)
		if err != nil {
			return fmt.Errorf("make telegram bot: %w", err)
		}

		ewg.Go(func() error {
			lg.Info("starting telegram bot")
			if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("telegram bot: %w", err)
			}
			lg.Warn("telegram bot stopped")
			return nil
		})
	}

	if len(s.Watchlist.Tickers) > 0 {
		c := cron.New()
		if _, err := c.AddFunc(s.Watchlist.Schedule, func() { s.refreshWatchlist(ctx, lg, svc) }); err != nil {
			return fmt.Errorf("schedule watchlist refresh: %w", err)
		}
		c.Start()
		defer c.Stop()
		lg.Info("watchlist refresh scheduled",
			slog.String("schedule", s.Watchlist.Schedule),
			slog.Any("tickers", s.Watchlist.Tickers))
	}

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (s Server) refreshWatchlist(ctx context.Context, lg *slog.Logger, svc *report.Service) {
	for _, ticker := range s.Watchlist.Tickers {
		if _, err := svc.Analyze(ctx, report.Request{Ticker: ticker}); err != nil {
			lg.Warn("watchlist refresh failed",
				slog.String("ticker", ticker), slog.Any("err", err))
		}
	}
}
