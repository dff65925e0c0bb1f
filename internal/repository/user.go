// Package repository provides PostgreSQL persistence for users,
// predictions and contact messages.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teameicu/careportal/internal/models"
)

// PostgresUserRepository implements account persistence against PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository with the given
// database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// ExistsByEmail reports whether an account with the given email exists.
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// Create stores a new account.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (email, username, password_hash, role, hospital, designation, patient_id, is_verified)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.Email, u.Username, u.PasswordHash, string(u.Role), u.Hospital, u.Designation, u.PatientID, u.Verified,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByUsernameOrEmail looks an account up by either identifier,
// matching the original login contract. Returns (nil, nil) when no
// account matches.
func (r *PostgresUserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	var role string
	err := r.DB.QueryRowContext(ctx, `
		SELECT email, username, password_hash, role, hospital, designation, patient_id, is_verified
		  FROM users WHERE email = $1 OR username = $1
	`, identifier).Scan(&u.Email, &u.Username, &u.PasswordHash, &role, &u.Hospital, &u.Designation, &u.PatientID, &u.Verified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

// MarkVerified flips the verification flag after a successful OTP check.
// Returns true when a matching account was updated.
func (r *PostgresUserRepository) MarkVerified(ctx context.Context, email string) (bool, error) {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET is_verified = TRUE WHERE email = $1`,
		email,
	)
	if err != nil {
		return false, fmt.Errorf("mark verified: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CountAll returns the total number of accounts.
func (r *PostgresUserRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CountByRole returns the number of accounts registered with the role.
func (r *PostgresUserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, err
}
