package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/contact"
)

const createContactMessageSQL = `INSERT INTO contact_messages (email, subject, details, status)
	VALUES ($1, $2, $3, $4) RETURNING id, created_at`

var _ contact.Repository = (*ContactRepository)(nil)

// ContactRepository implements contact.Repository backed by PostgreSQL.
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a ContactRepository that uses the given pool.
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create persists a new contact message.
func (r *ContactRepository) Create(ctx context.Context, m *contact.Message) error {
	if m.Status == "" {
		m.Status = contact.StatusPending
	}
	err := r.pool.QueryRow(ctx, createContactMessageSQL, m.Email, m.Subject, m.Details, m.Status).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating contact message from %q: %w", m.Email, err)
	}
	return nil
}
