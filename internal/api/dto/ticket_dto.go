package dto

import (
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// CreateTicketRequest payload for POST /tickets.
type CreateTicketRequest struct {
	UserID   int64  `json:"user_id"`
	Subject  string `json:"subject"`
	Priority string `json:"priority"`
}

// CreateTicketResponse is returned by POST /tickets.
type CreateTicketResponse struct {
	Message  string `json:"message"`
	TicketID int64  `json:"ticket_id"`
}

// ChangeStateRequest payload for PUT /tickets/:id/estado.
type ChangeStateRequest struct {
	State string `json:"state"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TicketResponse is the list view of a ticket.
type TicketResponse struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"user_id"`
	Subject   string                `json:"subject"`
	State     domain.TicketState    `json:"state"`
	Priority  domain.TicketPriority `json:"priority"`
	CreatedAt time.Time             `json:"created_at"`
}

// InteractionResponse is one history entry.
type InteractionResponse struct {
	ID        int64       `json:"id"`
	TicketID  int64       `json:"ticket_id"`
	Author    domain.Role `json:"author"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Subject:   t.Subject,
		State:     t.State,
		Priority:  t.Priority,
		CreatedAt: t.CreatedAt,
	}
}

func NewInteractionResponse(i *domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:        i.ID,
		TicketID:  i.TicketID,
		Author:    i.Author,
		Message:   i.Message,
		CreatedAt: i.CreatedAt,
	}
}
