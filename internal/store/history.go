package store

import (
	"context"

	"github.com/quotedesk/quotebot/internal/domain"
)

// HistoryStore persists a bounded per-user conversation history. The store
// keeps only the most recent messages for each user; older turns are pruned
// when new ones are appended.
type HistoryStore interface {
	// GetRecent returns up to limit of the user's most recent messages in
	// chronological order (oldest first). An unknown user yields an empty
	// slice, not an error.
	GetRecent(ctx context.Context, userEmail string, limit int) ([]domain.Message, error)

	// Append saves a message and prunes the user's history beyond keep
	// messages. Validation errors from the domain Message are returned
	// unchanged.
	Append(ctx context.Context, msg *domain.Message, keep int) error
}
