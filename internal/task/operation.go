package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Status represents the current state of an operation.
type Status int

// Possible operation status values.
const (
	StatusRunning Status = iota
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// String returns a human-readable status name for logging.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Func is the unit of long-running work an Operation executes. The context
// it receives is cancelled only by Operation.Cancel, never by a waiter
// giving up.
type Func func(ctx context.Context) (string, error)

// Outcome is the terminal value of an operation. Result is set only when
// Status is StatusCompleted; Err only when Status is StatusFailed.
type Outcome struct {
	Status Status
	Result string
	Err    error
}

// Operation is a handle to one in-flight unit of work. The work runs on its
// own goroutine with a context detached from any caller, so a waiter that
// stops waiting does not stop the work. Exactly one writer (the operation's
// own goroutine) transitions the status away from StatusRunning; the
// terminal fields are published by closing done, so any number of readers
// observe the same single outcome.
type Operation struct {
	id        string
	startedAt time.Time

	cancel    context.CancelFunc
	cancelled atomic.Bool

	// Terminal state. Written once by the operation goroutine strictly
	// before done is closed; read only after done is closed.
	status Status
	result string
	err    error
	done   chan struct{}
}

// Start launches fn on its own goroutine and returns a handle to it.
// The id is an opaque correlation key carried through log records.
func Start(id string, fn Func) *Operation {
	ctx, cancel := context.WithCancel(context.Background())
	op := &Operation{
		id:        id,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(op.done)
		defer func() {
			// A panicking operation must terminate the handle, not the
			// process.
			if r := recover(); r != nil {
				op.status = StatusFailed
				op.err = fmt.Errorf("operation panicked: %v", r)
			}
		}()

		result, err := fn(ctx)
		switch {
		case err == nil:
			op.status = StatusCompleted
			op.result = result
		case op.cancelled.Load() && errors.Is(err, context.Canceled):
			op.status = StatusCancelled
		default:
			op.status = StatusFailed
			op.err = err
		}
	}()

	return op
}

// ID returns the operation's correlation key.
func (op *Operation) ID() string { return op.id }

// StartedAt returns the creation timestamp of the operation.
func (op *Operation) StartedAt() time.Time { return op.startedAt }

// IsDone reports whether the operation has reached a terminal state.
func (op *Operation) IsDone() bool {
	select {
	case <-op.done:
		return true
	default:
		return false
	}
}

// Cancel requests cooperative cancellation of the work. It is advisory: the
// work observes it through its context and may keep running if it cannot be
// interrupted. Cancel never blocks waiting for termination.
func (op *Operation) Cancel() {
	op.cancelled.Store(true)
	op.cancel()
}

// Outcome returns the terminal value of the operation, or an Outcome with
// StatusRunning if it has not terminated yet.
func (op *Operation) Outcome() Outcome {
	select {
	case <-op.done:
		return Outcome{Status: op.status, Result: op.result, Err: op.err}
	default:
		return Outcome{Status: StatusRunning}
	}
}

// AwaitTerminal waits until the operation reaches a terminal state, the
// timeout elapses, or ctx is cancelled, whichever happens first. It reports
// whether a terminal state was reached; giving up the wait leaves the work
// running.
func (op *Operation) AwaitTerminal(ctx context.Context, timeout time.Duration) (Outcome, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-op.done:
		return op.Outcome(), true
	case <-timer.C:
		return Outcome{Status: StatusRunning}, false
	case <-ctx.Done():
		return Outcome{Status: StatusRunning}, false
	}
}
