package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/repository"
)

const ticketColumns = `id, user_id, subject, state, priority, created_at`

type ticketRepository struct {
	q   querier
	now func() time.Time
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	createdAt := r.now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO tickets (user_id, subject, state, priority, created_at) VALUES (?, ?, ?, ?, ?)`,
		ticket.UserID, ticket.Subject, ticket.State.String(), ticket.Priority.String(), formatTime(createdAt))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ticket.ID = id
	ticket.CreatedAt = createdAt
	return nil
}

func (r *ticketRepository) UpdateState(ctx context.Context, id int64, state domain.TicketState) (*domain.Ticket, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE tickets SET state = ? WHERE id = ?`, state.String(), id)
	if err != nil {
		return nil, translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("ticket %d: %w", id, repository.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return scanTicket(r.q.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id))
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC, id DESC`)
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

func scanTicket(row scanner) (*domain.Ticket, error) {
	var (
		ticket                     domain.Ticket
		state, priority, createdAt string
	)
	if err := row.Scan(&ticket.ID, &ticket.UserID, &ticket.Subject, &state, &priority, &createdAt); err != nil {
		return nil, translate(err)
	}
	var err error
	if ticket.State, err = domain.ParseTicketState(state); err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticket.ID, err)
	}
	if ticket.Priority, err = domain.ParseTicketPriority(priority); err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticket.ID, err)
	}
	if ticket.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticket.ID, err)
	}
	return &ticket, nil
}
