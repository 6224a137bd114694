package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindActiveByUsername returns nil when no active user has that username.
func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT id, username, password_hash, role, is_active, created_at FROM users WHERE username = ? AND is_active = ?`

	var user entity.User
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, username, true).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	user.CreatedAt = timePtr(createdAt)
	return &user, nil
}

// GetByID returns nil when the row does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	query := `SELECT id, username, password_hash, role, is_active, created_at FROM users WHERE id = ?`

	var user entity.User
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by id %d: %w", id, err)
	}
	user.CreatedAt = timePtr(createdAt)
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	return r.list(ctx, `SELECT id, username, role, is_active, created_at FROM users ORDER BY id`)
}

// ListByRole returns users with the given role, newest first.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]entity.User, error) {
	return r.list(ctx, `SELECT id, username, role, is_active, created_at FROM users WHERE role = ? ORDER BY created_at DESC, id DESC`, role)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]entity.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		var user entity.User
		var createdAt sql.NullTime
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &user.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.CreatedAt = timePtr(createdAt)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create inserts the user and returns its id. A taken username yields ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) (int, error) {
	query := `INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = int(id)
	return user.ID, nil
}

// DeleteByIDAndRole deletes the row only when it carries the given role.
func (r *UserRepository) DeleteByIDAndRole(ctx context.Context, id int, role string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ? AND role = ?`, id, role)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user id %d: %w", id, err)
	}
	return res.RowsAffected()
}

// UpdatePasswordByIDAndRole replaces the stored credential only when the row carries the given role.
func (r *UserRepository) UpdatePasswordByIDAndRole(ctx context.Context, id int, role, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ? AND role = ?`, passwordHash, id, role)
	if err != nil {
		return 0, fmt.Errorf("failed to update password for user id %d: %w", id, err)
	}
	return res.RowsAffected()
}
