package postgres

import (
	"context"
	"database/sql"
	"time"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, username, email, password_hash, full_name, bio, role, disabled, last_login_at, created_at, updated_at`

func scanUser(s scanner) (*model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)
	if err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Bio,
		&u.Role,
		&u.Disabled,
		&lastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

// Create inserts a user and returns the stored row.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, username, email, password_hash, full_name, bio, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Bio,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByUsername fetches a user by login name.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

// Update writes email, full name and bio.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		UPDATE users
		SET email = $2, full_name = $3, bio = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q, u.ID, u.Email, u.FullName, u.Bio, u.UpdatedAt)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// UpdateLastLogin stamps a successful login.
func (r *UserPostgres) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET last_login_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
