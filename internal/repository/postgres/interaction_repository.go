package postgres

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-tickets/internal/domain"
)

type interactionRepository struct {
	q querier
}

func (r *interactionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (ticket_id, author, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		interaction.TicketID,
		interaction.Author.String(),
		interaction.Message,
	).Scan(&interaction.ID, &interaction.CreatedAt)
	return translate(err)
}

func (r *interactionRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Interaction, error) {
	const query = `
        SELECT id, ticket_id, author, message, created_at
        FROM interactions WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Interaction{}
	for rows.Next() {
		var (
			interaction domain.Interaction
			author      string
		)
		if err := rows.Scan(
			&interaction.ID,
			&interaction.TicketID,
			&author,
			&interaction.Message,
			&interaction.CreatedAt,
		); err != nil {
			return nil, translate(err)
		}
		if interaction.Author, err = domain.ParseRole(author); err != nil {
			return nil, fmt.Errorf("interaction %d: %w", interaction.ID, err)
		}
		result = append(result, interaction)
	}
	return result, translate(rows.Err())
}
