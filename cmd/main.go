package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"pluginsummary/internal/config"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	log := newLogger(cfg.Debug)
	slog.SetDefault(log)

	if err != nil {
		log.Error("Failed to load config",
			"error", err)

		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = newRootCommand(cfg, log).ExecuteContext(ctx); err != nil {
		log.ErrorContext(ctx, "Command failed",
			"error", err)

		return 1
	}

	return 0
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
