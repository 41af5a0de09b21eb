package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quotedesk/quotebot/internal/domain"
	"github.com/quotedesk/quotebot/internal/platform/logger"
	"github.com/quotedesk/quotebot/internal/store"
)

// HistoryStore implements store.HistoryStore using a PostgreSQL database.
type HistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewHistoryStore creates a PostgreSQL implementation of store.HistoryStore.
// The database handle must be initialized and managed by the caller. If
// logger is nil, the default logger is used.
func NewHistoryStore(db store.DBTX, log *slog.Logger) *HistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &HistoryStore{
		db:     db,
		logger: log.With(slog.String("component", "history_store")),
	}
}

var _ store.HistoryStore = (*HistoryStore)(nil)

// GetRecent implements store.HistoryStore.GetRecent. Messages are returned
// oldest first so they can be replayed into a prompt directly.
func (s *HistoryStore) GetRecent(ctx context.Context, userEmail string, limit int) ([]domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_email, role, content, created_at
		FROM messages
		WHERE user_email = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.Any("error", err))
		}
	}()

	var newestFirst []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.UserEmail, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = domain.Role(role)
		newestFirst = append(newestFirst, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	// Reverse into chronological order.
	messages := make([]domain.Message, len(newestFirst))
	for i, msg := range newestFirst {
		messages[len(newestFirst)-1-i] = msg
	}
	return messages, nil
}

// Append implements store.HistoryStore.Append. After inserting, rows beyond
// the keep bound are pruned so the per-user history stays small.
func (s *HistoryStore) Append(ctx context.Context, msg *domain.Message, keep int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	insert := `
		INSERT INTO messages (id, user_email, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, insert,
		msg.ID, msg.UserEmail, string(msg.Role), msg.Content, msg.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	prune := `
		DELETE FROM messages
		WHERE user_email = $1
		  AND id NOT IN (
			SELECT id FROM messages
			WHERE user_email = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		  )
	`
	result, err := s.db.ExecContext(ctx, prune, msg.UserEmail, keep)
	if err != nil {
		// The message itself was saved; pruning can catch up next time.
		log.Warn("failed to prune history", slog.Any("error", err))
		return nil
	}
	if pruned, err := result.RowsAffected(); err == nil && pruned > 0 {
		log.Debug("pruned old history",
			slog.String("user_email", msg.UserEmail),
			slog.Int64("pruned", pruned))
	}
	return nil
}
