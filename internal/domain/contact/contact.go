package contact

import (
	"context"
	"time"
)

// Message statuses.
const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

// Message is a customer contact form submission.
type Message struct {
	ID        int64
	Email     string
	Subject   string
	Details   string
	Status    string
	CreatedAt time.Time
}

// Repository defines persistence operations for contact messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
}
