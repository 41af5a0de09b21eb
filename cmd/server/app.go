package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/quotedesk/quotebot/internal/chat"
	"github.com/quotedesk/quotebot/internal/config"
	"github.com/quotedesk/quotebot/internal/platform/gemini"
	"github.com/quotedesk/quotebot/internal/platform/logger"
	"github.com/quotedesk/quotebot/internal/platform/postgres"
	"github.com/quotedesk/quotebot/internal/platform/secrets"
	"github.com/quotedesk/quotebot/internal/service"
	"github.com/quotedesk/quotebot/internal/service/auth"
	"github.com/quotedesk/quotebot/internal/task"
)

// errorMessageText is sent whenever the agent fails and a reply is still
// owed to the user, synchronously or out of band.
const errorMessageText = "Sorry, a technical error occurred while processing your request. Please contact support."

// application holds the wired dependencies of the running server.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	assistant *service.Assistant
	verifier  *auth.ChatTokenVerifier
}

// newApplication loads configuration and wires every component. The
// passed context bounds startup work and the lifetime of background
// continuations launched later.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("model", cfg.Agent.ModelName))

	db, err := setupDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	history := postgres.NewHistoryStore(db, log)

	generator, err := gemini.NewGenerator(ctx, log, cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	credentials, err := secrets.NewProvider(ctx, cfg.Secrets, log)
	if err != nil {
		return nil, fmt.Errorf("creating secrets provider: %w", err)
	}
	notifier := chat.NewAPINotifier(credentials, log)

	verifier, err := auth.NewChatTokenVerifier(cfg.Chat.Audience, auth.NewGoogleCertSource(log), log)
	if err != nil {
		return nil, fmt.Errorf("creating token verifier: %w", err)
	}

	supervisor, err := task.NewSupervisor(task.SupervisorConfig{
		Deadline:        time.Duration(cfg.Supervisor.DeadlineSeconds) * time.Second,
		Cadence:         time.Duration(cfg.Supervisor.CadenceSeconds) * time.Second,
		WaitingMessages: cfg.Supervisor.WaitingMessages,
		ErrorMessage:    errorMessageText,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("creating supervisor: %w", err)
	}

	assistant, err := service.NewAssistant(
		log, generator, history, supervisor, notifier, cfg.History.MaxMessages, ctx)
	if err != nil {
		return nil, fmt.Errorf("creating assistant: %w", err)
	}

	return &application{
		config:    cfg,
		logger:    log,
		db:        db,
		assistant: assistant,
		verifier:  verifier,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
