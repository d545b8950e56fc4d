package postgres

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-tickets/internal/domain"
)

type userRepository struct {
	q querier
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Role.String(),
	).Scan(&user.ID, &user.CreatedAt)
	return translate(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, name, email, role, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, role, created_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) First(ctx context.Context) (*domain.User, error) {
	const query = `
        SELECT id, name, email, role, created_at
        FROM users ORDER BY id ASC LIMIT 1`
	return r.fetchSingle(ctx, query)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := r.q.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	user.Role = parsed
	return &user, nil
}
