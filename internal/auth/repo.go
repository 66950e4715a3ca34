package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRow mirrors a users table row.
type UserRow struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repo persists users in PostgreSQL.
type Repo struct {
	Pool *pgxpool.Pool
}

// CreateUser inserts a user with the default customer role.
func (r *Repo) CreateUser(ctx context.Context, name, email, passwordHash string) (UserRow, error) {
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, roles, created_at, updated_at`,
		name, email, passwordHash)
	return scanUser(row)
}

// GetUserByEmail fetches a user by normalised email.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (UserRow, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetUserByID fetches a user by identifier.
func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (UserRow, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (UserRow, error) {
	var u UserRow
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return UserRow{}, err
	}
	return u, nil
}
