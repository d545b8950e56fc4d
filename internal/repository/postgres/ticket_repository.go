package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-tickets/internal/domain"
)

const ticketColumns = `id, user_id, subject, state, priority, created_at`

type ticketRepository struct {
	q querier
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, subject, state, priority)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Subject,
		ticket.State.String(),
		ticket.Priority.String(),
	).Scan(&ticket.ID, &ticket.CreatedAt)
	return translate(err)
}

func (r *ticketRepository) UpdateState(ctx context.Context, id int64, state domain.TicketState) (*domain.Ticket, error) {
	query := `UPDATE tickets SET state=$1 WHERE id=$2 RETURNING ` + ticketColumns
	return scanTicket(r.q.QueryRow(ctx, query, state.String(), id))
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.q.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, translate(rows.Err())
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket          domain.Ticket
		state, priority string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Subject,
		&state,
		&priority,
		&ticket.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	var err error
	if ticket.State, err = domain.ParseTicketState(state); err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticket.ID, err)
	}
	if ticket.Priority, err = domain.ParseTicketPriority(priority); err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticket.ID, err)
	}
	return &ticket, nil
}
