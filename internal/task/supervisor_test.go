package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testErrorMessage = "Sorry, a technical error occurred while processing your request."

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func testSupervisor(t *testing.T, deadline, cadence time.Duration, script []string) *Supervisor {
	t.Helper()
	sup, err := NewSupervisor(SupervisorConfig{
		Deadline:        deadline,
		Cadence:         cadence,
		WaitingMessages: script,
		ErrorMessage:    testErrorMessage,
	}, testLogger())
	require.NoError(t, err)
	return sup
}

// recordingNotifier captures every notification for later assertions.
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []string
	targets []Target
	err     error
}

func (n *recordingNotifier) Send(ctx context.Context, target Target, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	n.targets = append(n.targets, target)
	return nil
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}

func TestNewSupervisor_RejectsShortScript(t *testing.T) {
	t.Parallel()

	_, err := NewSupervisor(SupervisorConfig{
		Deadline:        time.Second,
		Cadence:         time.Second,
		WaitingMessages: []string{"only one"},
		ErrorMessage:    testErrorMessage,
	}, testLogger())

	assert.Error(t, err)
}

func TestSupervisor_Attempt_FastPathSuccess(t *testing.T) {
	t.Parallel()

	sup := testSupervisor(t, time.Second, time.Second, []string{"A", "B", "C"})

	delivered, msg, op := sup.Attempt(context.Background(), "user@example.com",
		func(ctx context.Context) (string, error) {
			return "quick result", nil
		})

	assert.True(t, delivered)
	assert.Equal(t, "quick result", msg)
	assert.Nil(t, op)
}

func TestSupervisor_Attempt_FastPathFailureReturnsGenericMessage(t *testing.T) {
	t.Parallel()

	sup := testSupervisor(t, time.Second, time.Second, []string{"A", "B", "C"})

	delivered, msg, op := sup.Attempt(context.Background(), "user@example.com",
		func(ctx context.Context) (string, error) {
			return "", errors.New("pg: connection refused at 10.0.0.5")
		})

	assert.True(t, delivered)
	assert.Equal(t, testErrorMessage, msg)
	assert.NotContains(t, msg, "10.0.0.5", "raw error text must never reach the caller")
	assert.Nil(t, op)
}

func TestSupervisor_Attempt_TimeoutReturnsFirstWaitingMessageAndHandle(t *testing.T) {
	t.Parallel()

	sup := testSupervisor(t, 30*time.Millisecond, time.Second, []string{"A", "B", "C"})

	release := make(chan struct{})
	delivered, msg, op := sup.Attempt(context.Background(), "user@example.com",
		func(ctx context.Context) (string, error) {
			select {
			case <-release:
				return "slow result", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

	assert.False(t, delivered)
	assert.Equal(t, "A", msg)
	require.NotNil(t, op)

	// The deadline must not have cancelled the work.
	assert.False(t, op.IsDone())
	close(release)
	outcome, terminal := op.AwaitTerminal(context.Background(), time.Second)
	require.True(t, terminal)
	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, "slow result", outcome.Result)
}

func TestSupervisor_Attempt_PanicInOperationIsContained(t *testing.T) {
	t.Parallel()

	sup := testSupervisor(t, time.Second, time.Second, []string{"A", "B"})

	delivered, msg, op := sup.Attempt(context.Background(), "user@example.com",
		func(ctx context.Context) (string, error) {
			panic("unexpected state")
		})

	assert.True(t, delivered)
	assert.Equal(t, testErrorMessage, msg)
	assert.Nil(t, op)
}
