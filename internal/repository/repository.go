package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// Driver-neutral errors. Store implementations wrap the driver error with one
// of these so callers never depend on a specific driver.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrReference = errors.New("referenced record missing")
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// First returns the earliest registered user.
	First(ctx context.Context) (*domain.User, error)
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// UpdateState sets the state and returns the updated row, or ErrNotFound.
	UpdateState(ctx context.Context, id int64, state domain.TicketState) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// List returns every ticket, newest first.
	List(ctx context.Context) ([]domain.Ticket, error)
}

// InteractionRepository stores the append-only ticket history.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) error
	// ListByTicket returns entries oldest first, ties broken by insertion order.
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Interaction, error)
}

// Repositories is a set of repositories bound to one connection or transaction.
type Repositories struct {
	Users        UserRepository
	Tickets      TicketRepository
	Interactions InteractionRepository
}

// Store is the single source of truth. WithinTx runs fn against repositories
// bound to one transaction; a non-nil error from fn rolls everything back.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Ping(ctx context.Context) error
}
