package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a conversation message.
type Role string

// Possible message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Common validation errors for Message.
var (
	ErrEmptyMessageID = errors.New("message ID cannot be empty")
	ErrEmptyUserEmail = errors.New("message user email cannot be empty")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrInvalidRole    = errors.New("invalid message role")
)

// Message is one turn of a user's conversation with the assistant. The
// history store keeps a bounded number of these per user.
type Message struct {
	ID        uuid.UUID `json:"id"`
	UserEmail string    `json:"user_email"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a new Message with a generated ID and the current
// timestamp. Returns an error if validation fails.
func NewMessage(userEmail string, role Role, content string) (*Message, error) {
	msg := &Message{
		ID:        uuid.New(),
		UserEmail: userEmail,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the Message has valid data.
func (m *Message) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMessageID
	}
	if m.UserEmail == "" {
		return ErrEmptyUserEmail
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return ErrInvalidRole
	}
	return nil
}
