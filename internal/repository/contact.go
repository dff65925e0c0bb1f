package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teameicu/careportal/internal/models"
)

// PostgresContactRepository stores contact-form messages.
type PostgresContactRepository struct {
	DB *sql.DB
}

// NewPostgresContactRepository creates a PostgresContactRepository using
// the provided *sql.DB.
func NewPostgresContactRepository(db *sql.DB) *PostgresContactRepository {
	return &PostgresContactRepository{DB: db}
}

// Insert stores one contact message.
func (r *PostgresContactRepository) Insert(ctx context.Context, m *models.ContactMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO contacts (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.Name, m.Email, m.Message, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}
