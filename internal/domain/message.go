package domain

import "context"

// Message is a free-form note kept in the file-backed message store.
type Message struct {
	ID      string
	Content string
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, content string) (*Message, error)
	GetByID(ctx context.Context, id string) (*Message, error)
	List(ctx context.Context) ([]Message, error)
}
