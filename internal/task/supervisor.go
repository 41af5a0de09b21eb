package task

import (
	"context"
	"log/slog"
	"time"
)

// SupervisorConfig holds the tunables of the fast path and its background
// continuation.
type SupervisorConfig struct {
	// Deadline is the fast-path budget: how long the synchronous caller
	// waits for the operation before receiving a waiting message instead.
	Deadline time.Duration

	// Cadence is the polling period of the background continuation. The
	// original deadline is commonly reused here.
	Cadence time.Duration

	// WaitingMessages is the progress script, length >= 2.
	WaitingMessages []string

	// ErrorMessage is the generic technical-error text shown to users in
	// place of raw operation errors.
	ErrorMessage string
}

// Supervisor arbitrates between answering a synchronous caller inline and
// detaching the operation into a background continuation.
type Supervisor struct {
	cfg    SupervisorConfig
	logger *slog.Logger
}

// NewSupervisor creates a Supervisor. The waiting-message script is
// validated eagerly so a bad configuration fails at startup, not per
// request.
func NewSupervisor(cfg SupervisorConfig, logger *slog.Logger) (*Supervisor, error) {
	if _, err := NewScript(cfg.WaitingMessages); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "task_supervisor")),
	}, nil
}

// Attempt starts fn and waits up to the configured deadline for it to
// terminate.
//
// If the operation terminates in time, Attempt returns delivered=true with
// the result text (or the generic error message when it failed; the raw
// error is only logged) and a nil handle.
//
// If the deadline elapses first, the operation keeps running: Attempt
// returns delivered=false, the first waiting message for the synchronous
// caller, and the live handle. Ownership of the handle transfers to the
// caller, who must hand it to a Continuation.
func (s *Supervisor) Attempt(ctx context.Context, id string, fn Func) (delivered bool, message string, op *Operation) {
	op = Start(id, fn)

	log := s.logger.With(slog.String("operation_id", id))
	log.Debug("operation started, racing against deadline",
		slog.Duration("deadline", s.cfg.Deadline))

	outcome, terminal := op.AwaitTerminal(ctx, s.cfg.Deadline)
	if !terminal {
		log.Info("fast-path deadline elapsed, detaching operation",
			slog.Duration("deadline", s.cfg.Deadline))
		return false, s.cfg.WaitingMessages[0], op
	}

	switch outcome.Status {
	case StatusCompleted:
		log.Info("operation completed within deadline",
			slog.Duration("elapsed", time.Since(op.StartedAt())))
		return true, outcome.Result, nil
	default:
		// Failed (or, pathologically, cancelled). The synchronous boundary
		// always returns a response, never an error.
		log.Error("operation failed within deadline",
			slog.String("status", outcome.Status.String()),
			slog.Any("error", outcome.Err))
		return true, s.cfg.ErrorMessage, nil
	}
}

// NewContinuation builds the background continuation for an operation whose
// fast path timed out. The script cursor starts past the entry already
// delivered by Attempt.
func (s *Supervisor) NewContinuation(op *Operation, target Target, notifier Notifier) *Continuation {
	// The script was validated at construction time.
	script, _ := NewScript(s.cfg.WaitingMessages)
	return &Continuation{
		op:           op,
		script:       script,
		target:       target,
		notifier:     notifier,
		cadence:      s.cfg.Cadence,
		errorMessage: s.cfg.ErrorMessage,
		logger:       s.logger.With(slog.String("component", "continuation"), slog.String("operation_id", op.ID())),
	}
}
