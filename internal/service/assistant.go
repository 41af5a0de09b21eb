package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quotedesk/quotebot/internal/domain"
	"github.com/quotedesk/quotebot/internal/generation"
	"github.com/quotedesk/quotebot/internal/store"
	"github.com/quotedesk/quotebot/internal/task"
)

// ChatRequest carries everything the assistant needs to answer one
// incoming chat message.
type ChatRequest struct {
	// UserEmail identifies the sender and keys their conversation history.
	UserEmail string

	// UserMessage is the raw text the user sent.
	UserMessage string

	// Target is where out-of-band follow-up messages are posted if the
	// synchronous window elapses before the answer is ready.
	Target task.Target
}

// Assistant answers chat messages. It races the generation pipeline
// against the supervisor's synchronous deadline; when the deadline wins,
// the pipeline keeps running in the background and its eventual outcome
// is delivered through the notifier instead of the HTTP response.
type Assistant struct {
	logger      *slog.Logger
	generator   generation.Generator
	history     store.HistoryStore
	supervisor  *task.Supervisor
	notifier    task.Notifier
	maxHistory  int
	detachedCtx context.Context
}

// NewAssistant creates an Assistant. detachedCtx bounds the lifetime of
// background continuations; it should outlive individual requests and is
// typically the process root context so in-flight work is released on
// shutdown.
func NewAssistant(
	logger *slog.Logger,
	generator generation.Generator,
	history store.HistoryStore,
	supervisor *task.Supervisor,
	notifier task.Notifier,
	maxHistory int,
	detachedCtx context.Context,
) (*Assistant, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if supervisor == nil {
		return nil, fmt.Errorf("supervisor is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if maxHistory < 0 {
		return nil, fmt.Errorf("maxHistory must not be negative")
	}
	if detachedCtx == nil {
		detachedCtx = context.Background()
	}
	return &Assistant{
		logger:      logger.With(slog.String("component", "assistant")),
		generator:   generator,
		history:     history,
		supervisor:  supervisor,
		notifier:    notifier,
		maxHistory:  maxHistory,
		detachedCtx: detachedCtx,
	}, nil
}

// HandleMessage answers one chat message. The returned string is always
// suitable for the synchronous reply: the generated answer when it beat
// the deadline, a generic error notice when generation failed in time,
// or the first waiting message when the work was handed off to a
// background continuation.
func (a *Assistant) HandleMessage(ctx context.Context, req ChatRequest) string {
	opID := uuid.New().String()
	log := a.logger.With(
		slog.String("operation_id", opID),
		slog.String("user_email", req.UserEmail),
	)

	delivered, reply, op := a.supervisor.Attempt(ctx, opID, a.pipeline(req))
	if delivered {
		return reply
	}

	log.Info("synchronous deadline elapsed, detaching continuation",
		slog.String("space", req.Target.ChannelID))
	cont := a.supervisor.NewContinuation(op, req.Target, a.notifier)
	go cont.Run(a.detachedCtx)
	return reply
}

// pipeline builds the operation body: read recent history, generate a
// reply, persist both turns. History failures degrade the answer rather
// than fail it; persistence failures are logged and the reply is still
// returned.
func (a *Assistant) pipeline(req ChatRequest) task.Func {
	return func(ctx context.Context) (string, error) {
		history, err := a.history.GetRecent(ctx, req.UserEmail, a.maxHistory)
		if err != nil {
			a.logger.Warn("failed to load conversation history, answering without it",
				slog.String("user_email", req.UserEmail),
				slog.String("error", err.Error()))
			history = nil
		}

		reply, err := a.generator.GenerateResponse(ctx, history, req.UserMessage)
		if err != nil {
			return "", fmt.Errorf("generating response: %w", err)
		}

		a.persistTurn(ctx, req.UserEmail, domain.RoleUser, req.UserMessage)
		a.persistTurn(ctx, req.UserEmail, domain.RoleAssistant, reply)
		return reply, nil
	}
}

func (a *Assistant) persistTurn(ctx context.Context, email string, role domain.Role, content string) {
	msg, err := domain.NewMessage(email, role, content)
	if err != nil {
		a.logger.Warn("skipping invalid history entry",
			slog.String("user_email", email),
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
		return
	}
	if err := a.history.Append(ctx, msg, a.maxHistory); err != nil {
		a.logger.Warn("failed to persist history entry",
			slog.String("user_email", email),
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
	}
}
