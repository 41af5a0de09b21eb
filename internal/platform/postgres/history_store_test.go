package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/quotedesk/quotebot/internal/domain"
	"github.com/quotedesk/quotebot/internal/store"
	"github.com/stretchr/testify/assert"
)

// stubDB satisfies store.DBTX for tests that never reach the database.
type stubDB struct{}

func (stubDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (stubDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (stubDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func TestNewHistoryStore_NilDBPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewHistoryStore(nil, nil) })
}

func TestHistoryStore_AppendValidatesBeforeWriting(t *testing.T) {
	t.Parallel()

	s := NewHistoryStore(stubDB{}, nil)

	err := s.Append(context.Background(), &domain.Message{}, 4)

	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}
