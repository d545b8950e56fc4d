package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-tickets/internal/api/dto"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/service"
	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

// TicketsHandler exposes the ticket lifecycle.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.UserID <= 0 {
		return apperrors.NewInvalidArgument("user_id is required", nil)
	}
	priority, err := domain.ParseTicketPriority(req.Priority)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid priority", map[string]any{"priority": req.Priority})
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), req.UserID, req.Subject, priority)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateTicketResponse{
		Message:  "Ticket created",
		TicketID: ticket.ID,
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// ChangeState PUT /tickets/:id/estado.
func (h *TicketsHandler) ChangeState(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	state, err := domain.ParseTicketState(req.State)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid state", map[string]any{"state": req.State})
	}

	ticket, err := h.service.ChangeState(c.UserContext(), id, state)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "State updated to " + ticket.State.String()})
}

// History GET /tickets/:id/historial.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	history, err := h.service.GetHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.InteractionResponse, 0, len(history))
	for i := range history {
		items = append(items, dto.NewInteractionResponse(&history[i]))
	}
	return c.JSON(items)
}

func pathID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidArgument("id must be a positive integer", map[string]any{"id": raw})
	}
	return id, nil
}
