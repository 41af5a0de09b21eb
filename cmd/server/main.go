// Package main implements the entry point for the quotebot server, a
// Google Chat assistant that answers user messages with a Gemini-backed
// agent and hands slow answers off to background delivery.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := runMigrations(app.db, app.logger); err != nil {
		app.logger.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *migrateOnly {
		app.logger.Info("migrations complete")
		return
	}

	if err := app.serve(ctx); err != nil {
		app.logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
