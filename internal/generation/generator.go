package generation

import (
	"context"

	"github.com/quotedesk/quotebot/internal/domain"
)

// Generator produces an assistant reply for a user message, given the
// user's recent conversation history. Implementations may take arbitrarily
// long; callers are expected to supervise them with a deadline.
type Generator interface {
	// GenerateResponse returns the assistant's reply text.
	//
	// Parameters:
	//   - ctx: cancellation context; cancellation is advisory and
	//     implementations should return promptly when it fires
	//   - history: prior conversation turns, oldest first
	//   - userMessage: the message being answered
	GenerateResponse(ctx context.Context, history []domain.Message, userMessage string) (string, error)
}
