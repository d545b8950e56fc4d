package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
)

type userRepository struct {
	q   querier
	now func() time.Time
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	createdAt := r.now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (name, email, role, created_at) VALUES (?, ?, ?, ?)`,
		user.Name, user.Email, user.Role.String(), formatTime(createdAt))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT id, name, email, role, created_at FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT id, name, email, role, created_at FROM users WHERE email = ?`, email)
}

func (r *userRepository) First(ctx context.Context) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT id, name, email, role, created_at FROM users ORDER BY id ASC LIMIT 1`)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var (
		user            domain.User
		role, createdAt string
	)
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &role, &createdAt,
	); err != nil {
		return nil, translate(err)
	}
	var err error
	if user.Role, err = domain.ParseRole(role); err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	return &user, nil
}
