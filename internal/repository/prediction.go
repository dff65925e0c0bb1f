package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teameicu/careportal/internal/models"
)

// PostgresPredictionRepository implements prediction persistence against
// a PostgreSQL database.
type PostgresPredictionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPredictionRepository creates a PostgresPredictionRepository
// using the provided *sql.DB.
func NewPostgresPredictionRepository(db *sql.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{DB: db}
}

// Insert stores a computed prediction.
func (r *PostgresPredictionRepository) Insert(ctx context.Context, p *models.Prediction) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO predictions (id, email, los_days, mortality_pct, risk_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Email, p.LOSDays, p.MortalityPct, p.RiskLevel, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// ListByEmail fetches all predictions for the given email, oldest first.
func (r *PostgresPredictionRepository) ListByEmail(ctx context.Context, email string) ([]models.Prediction, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, los_days, mortality_pct, risk_level, created_at
		  FROM predictions WHERE email = $1 ORDER BY created_at
	`, email)
	if err != nil {
		return nil, fmt.Errorf("ListByEmail: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// ListAll fetches every stored prediction, oldest first.
func (r *PostgresPredictionRepository) ListAll(ctx context.Context) ([]models.Prediction, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, los_days, mortality_pct, risk_level, created_at
		  FROM predictions ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// ListRecent fetches the newest predictions, limited to limit rows.
func (r *PostgresPredictionRepository) ListRecent(ctx context.Context, limit int) ([]models.Prediction, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, los_days, mortality_pct, risk_level, created_at
		  FROM predictions ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// Count returns the total number of stored predictions.
func (r *PostgresPredictionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n)
	return n, err
}

func scanPredictions(rows *sql.Rows) ([]models.Prediction, error) {
	var preds []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.Email, &p.LOSDays, &p.MortalityPct, &p.RiskLevel, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}
