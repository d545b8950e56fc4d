package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketStateChanged EventType = "ticket_state_changed"
)

// Event is the task handed to the batch worker. It only identifies the
// ticket; consumers read current state from the store.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps a fresh id and the current time.
func NewEvent(eventType EventType, ticketID int64) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
	}
}
