package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage("ada@example.com", RoleUser, "hello")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, "ada@example.com", msg.UserEmail)
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Message {
		return &Message{
			ID:        uuid.New(),
			UserEmail: "ada@example.com",
			Role:      RoleAssistant,
			Content:   "hi",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr error
	}{
		{name: "valid", mutate: func(m *Message) {}, wantErr: nil},
		{name: "nil ID", mutate: func(m *Message) { m.ID = uuid.Nil }, wantErr: ErrEmptyMessageID},
		{name: "empty email", mutate: func(m *Message) { m.UserEmail = "" }, wantErr: ErrEmptyUserEmail},
		{name: "empty content", mutate: func(m *Message) { m.Content = "" }, wantErr: ErrEmptyContent},
		{name: "bad role", mutate: func(m *Message) { m.Role = "system" }, wantErr: ErrInvalidRole},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msg := valid()
			tc.mutate(msg)

			err := msg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
