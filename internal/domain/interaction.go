package domain

import "time"

// Interaction is an append-only entry in a ticket's history. Author is the
// role of whoever produced the event; state changes are always authored by
// RoleOperator.
type Interaction struct {
	ID        int64
	TicketID  int64
	Author    Role
	Message   string
	CreatedAt time.Time
}
