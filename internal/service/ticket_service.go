package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/cache"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/notify"
	"github.com/spec-kit/support-tickets/internal/observability"
	"github.com/spec-kit/support-tickets/internal/repository"
	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

// TicketService coordinates the ticket lifecycle and its interaction log.
//
// Concurrent state changes on the same ticket are not serialized: the last
// committed update wins and history order reflects commit order, not request
// order.
type TicketService struct {
	store   repository.Store
	side    sideEffects
	logger  *zap.Logger
	metrics *observability.Metrics
}

// TicketDependencies bundles collaborators for the ticket service. Cache,
// Notifier and Runner may be nil to disable the side channels.
type TicketDependencies struct {
	Store    repository.Store
	Cache    cache.Cache
	Notifier notify.Notifier
	Runner   SideChannels
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		store:   deps.Store,
		side:    sideEffects{runner: deps.Runner, cache: deps.Cache, notifier: deps.Notifier},
		logger:  logger,
		metrics: deps.Metrics,
	}
}

// CreateTicket opens a ticket for userID together with its creation
// interaction. Both rows commit together or not at all.
func (s *TicketService) CreateTicket(ctx context.Context, userID int64, subject string, priority domain.TicketPriority) (*domain.Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.NewInvalidArgument("subject is required", nil)
	}
	if !priority.Valid() {
		return nil, apperrors.NewInvalidArgument("invalid priority", map[string]any{"allowed": []string{"low", "medium", "high"}})
	}

	var ticket *domain.Ticket
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return userNotFound(userID)
		}
		if err != nil {
			return err
		}

		ticket = &domain.Ticket{
			UserID:   user.ID,
			Subject:  subject,
			State:    domain.TicketStateOpen,
			Priority: priority,
		}
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			if errors.Is(err, repository.ErrReference) {
				return userNotFound(userID)
			}
			return err
		}

		return repos.Interactions.Create(ctx, &domain.Interaction{
			TicketID: ticket.ID,
			Author:   user.Role,
			Message:  fmt.Sprintf("Ticket created with subject: %s", subject),
		})
	})
	if err != nil {
		return nil, s.fail("create ticket", err)
	}

	s.metrics.TicketCreated(priority.String())
	s.side.cachePut(cache.TicketKey(ticket.ID), cache.NewTicketRecord(ticket))
	return ticket, nil
}

// ListTickets returns every ticket, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.store.Repositories().Tickets.List(ctx)
	if err != nil {
		return nil, s.fail("list tickets", err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// ChangeState moves a ticket to state and records an operator interaction.
// Any state may follow any other. The update and its interaction share one
// transaction, so history never misses a committed change.
func (s *TicketService) ChangeState(ctx context.Context, ticketID int64, state domain.TicketState) (*domain.Ticket, error) {
	if !state.Valid() {
		return nil, apperrors.NewInvalidArgument("invalid state", map[string]any{"allowed": []string{"open", "in_progress", "closed"}})
	}

	var ticket *domain.Ticket
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		updated, err := repos.Tickets.UpdateState(ctx, ticketID, state)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		if err != nil {
			return err
		}
		ticket = updated

		return repos.Interactions.Create(ctx, &domain.Interaction{
			TicketID: ticketID,
			Author:   domain.RoleOperator,
			Message:  fmt.Sprintf("State updated to %s", state),
		})
	})
	if err != nil {
		return nil, s.fail("change state", err)
	}

	s.metrics.StateChanged(state.String())
	s.side.cachePut(cache.TicketKey(ticket.ID), cache.NewTicketRecord(ticket))
	s.side.notify(ticket.ID)
	return ticket, nil
}

// GetHistory returns the interactions of a ticket, oldest first. An unknown
// ticket yields an empty list rather than NotFound.
func (s *TicketService) GetHistory(ctx context.Context, ticketID int64) ([]domain.Interaction, error) {
	history, err := s.store.Repositories().Interactions.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, s.fail("get history", err)
	}
	if history == nil {
		history = []domain.Interaction{}
	}
	return history, nil
}

func (s *TicketService) fail(op string, err error) error {
	return translateStoreError(s.logger, op, err)
}

func userNotFound(id int64) error {
	return apperrors.NewNotFound("user", map[string]any{"user_id": id})
}

// translateStoreError passes domain errors through and turns anything else
// into a logged store failure with the driver detail hidden from callers.
func translateStoreError(logger *zap.Logger, op string, err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewStoreFailure(err)
}
