package domain

import (
	"fmt"
	"time"
)

// TicketState enumerates lifecycle states for tickets. Any state may follow
// any other; there is no terminal state.
type TicketState uint8

const (
	TicketStateOpen TicketState = iota + 1
	TicketStateInProgress
	TicketStateClosed
)

var stateNames = map[TicketState]string{
	TicketStateOpen:       "open",
	TicketStateInProgress: "in_progress",
	TicketStateClosed:     "closed",
}

// ParseTicketState converts the wire/persisted form into a TicketState.
func ParseTicketState(s string) (TicketState, error) {
	for state, name := range stateNames {
		if name == s {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown ticket state %q", s)
}

func (s TicketState) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

func (s TicketState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TicketState(%d)", uint8(s))
}

func (s TicketState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ticket state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *TicketState) UnmarshalText(text []byte) error {
	parsed, err := ParseTicketState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TicketPriority enumerates urgency.
type TicketPriority uint8

const (
	TicketPriorityLow TicketPriority = iota + 1
	TicketPriorityMedium
	TicketPriorityHigh
)

var priorityNames = map[TicketPriority]string{
	TicketPriorityLow:    "low",
	TicketPriorityMedium: "medium",
	TicketPriorityHigh:   "high",
}

// ParseTicketPriority converts the wire/persisted form into a TicketPriority.
func ParseTicketPriority(s string) (TicketPriority, error) {
	for priority, name := range priorityNames {
		if name == s {
			return priority, nil
		}
	}
	return 0, fmt.Errorf("unknown ticket priority %q", s)
}

func (p TicketPriority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p TicketPriority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TicketPriority(%d)", uint8(p))
}

func (p TicketPriority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid ticket priority %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *TicketPriority) UnmarshalText(text []byte) error {
	parsed, err := ParseTicketPriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Ticket is the aggregate for support requests. It owns its interactions.
type Ticket struct {
	ID        int64
	UserID    int64
	Subject   string
	State     TicketState
	Priority  TicketPriority
	CreatedAt time.Time
}
