package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
)

type interactionRepository struct {
	q   querier
	now func() time.Time
}

func (r *interactionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	createdAt := r.now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO interactions (ticket_id, author, message, created_at) VALUES (?, ?, ?, ?)`,
		interaction.TicketID, interaction.Author.String(), interaction.Message, formatTime(createdAt))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	interaction.ID = id
	interaction.CreatedAt = createdAt
	return nil
}

func (r *interactionRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Interaction, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, ticket_id, author, message, created_at
		 FROM interactions WHERE ticket_id = ? ORDER BY created_at ASC, id ASC`, ticketID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Interaction{}
	for rows.Next() {
		var (
			interaction       domain.Interaction
			author, createdAt string
		)
		if err := rows.Scan(&interaction.ID, &interaction.TicketID, &author, &interaction.Message, &createdAt); err != nil {
			return nil, translate(err)
		}
		if interaction.Author, err = domain.ParseRole(author); err != nil {
			return nil, fmt.Errorf("interaction %d: %w", interaction.ID, err)
		}
		if interaction.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("interaction %d: %w", interaction.ID, err)
		}
		result = append(result, interaction)
	}
	return result, translate(rows.Err())
}
