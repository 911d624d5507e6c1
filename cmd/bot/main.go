package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pavelc4/gofile-relay-bot/internal/app"
	sentryutil "github.com/pavelc4/gofile-relay-bot/internal/sentry"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		logger.Error("Failed to initialize app", "error", err)
		os.Exit(1)
	}

	logger.Info("Bot is starting...")
	err = a.Start(ctx)
	sentryutil.Flush()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutting down...")
}
