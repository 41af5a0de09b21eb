package task

import (
	"context"
	"log/slog"
	"time"
)

// Target identifies where background notifications for one request are
// delivered. Immutable for the lifetime of the request.
type Target struct {
	// ChannelID names the conversation (a Google Chat space, for this
	// application).
	ChannelID string

	// ThreadID optionally names a thread within the channel.
	ThreadID string
}

// Notifier sends a text notification to a conversation target. Failures are
// expected to be transient; callers treat Send as best-effort.
type Notifier interface {
	Send(ctx context.Context, target Target, text string) error
}

// Continuation states.
type continuationState int

const (
	stateWaiting continuationState = iota
	stateDelivering
	stateExhausted
	stateDone
)

// Continuation supervises a detached operation after the fast path timed
// out. It repeatedly re-races the operation against one cadence interval,
// sending successive script entries while the operation is still running.
// When only the script's reserved final entry remains, that entry is sent
// once and the operation is cancelled. Exactly one terminal message (the
// result, the generic error text, or the giving-up notice) is ever sent.
type Continuation struct {
	op           *Operation
	script       *Script
	target       Target
	notifier     Notifier
	cadence      time.Duration
	errorMessage string
	logger       *slog.Logger
}

// Run drives the continuation to completion. It is intended to run on its
// own goroutine, detached from the synchronous request: it has no caller to
// report to, and no failure inside it may crash the host process.
func (c *Continuation) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("continuation panicked", slog.Any("panic", r))
		}
	}()

	c.logger.Info("background continuation started",
		slog.Duration("cadence", c.cadence))

	state := stateWaiting
	for state != stateDone {
		switch state {
		case stateWaiting:
			state = c.wait(ctx)
		case stateDelivering:
			state = c.deliver(ctx)
		case stateExhausted:
			state = c.exhaust()
		}
	}

	c.logger.Info("background continuation finished")
}

// wait re-races the operation against one cadence interval. The interval is
// anchored on each loop iteration rather than on the wall clock.
func (c *Continuation) wait(ctx context.Context) continuationState {
	if _, terminal := c.op.AwaitTerminal(ctx, c.cadence); terminal {
		return stateDelivering
	}

	if ctx.Err() != nil {
		// Host is shutting down; stop polling without notifying. The
		// operation itself is lost with the process.
		c.logger.Warn("continuation context cancelled, abandoning supervision")
		return stateDone
	}

	// The cadence may elapse in the same instant the operation terminates;
	// prefer delivery over another waiting message.
	if c.op.IsDone() {
		return stateDelivering
	}

	msg, terminalMsg := c.script.Next()
	c.send(ctx, msg)
	if terminalMsg {
		return stateExhausted
	}
	return stateWaiting
}

// deliver fetches the operation's terminal value and sends the single final
// notification for it.
func (c *Continuation) deliver(ctx context.Context) continuationState {
	outcome := c.op.Outcome()
	switch outcome.Status {
	case StatusCompleted:
		c.logger.Info("operation completed in background",
			slog.Duration("elapsed", time.Since(c.op.StartedAt())))
		c.send(ctx, outcome.Result)
	case StatusFailed:
		// Raw error text never reaches the end user.
		c.logger.Error("operation failed in background", slog.Any("error", outcome.Err))
		c.send(ctx, c.errorMessage)
	case StatusCancelled:
		// Already notified when the script was exhausted; stay silent.
		c.logger.Info("operation cancelled, no further notification")
	}
	return stateDone
}

// exhaust requests advisory cancellation after the giving-up notice has been
// sent. If the work cannot be interrupted this only stops further polling;
// it does not block waiting for true termination.
func (c *Continuation) exhaust() continuationState {
	c.logger.Warn("progress script exhausted, cancelling operation",
		slog.Duration("elapsed", time.Since(c.op.StartedAt())))
	c.op.Cancel()
	return stateDone
}

// send delivers one notification, best-effort. A failed send is logged and
// never retried; the continuation moves on to its next scheduled action.
func (c *Continuation) send(ctx context.Context, text string) {
	if err := c.notifier.Send(ctx, c.target, text); err != nil {
		c.logger.Error("failed to send notification",
			slog.String("channel_id", c.target.ChannelID),
			slog.Any("error", err))
	}
}
