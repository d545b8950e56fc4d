// Package cache mirrors users and tickets into a key-value store. The mirror
// is write-through only and never authoritative.
package cache

import (
	"context"
	"strconv"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// Cache stores a JSON-encodable record under key.
type Cache interface {
	Put(ctx context.Context, key string, record any) error
}

// TicketRecord is the cached view of a ticket.
type TicketRecord struct {
	ID      int64              `json:"id"`
	Subject string             `json:"subject"`
	State   domain.TicketState `json:"state"`
}

// UserRecord is the cached view of a user.
type UserRecord struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

func TicketKey(id int64) string { return "ticket:" + strconv.FormatInt(id, 10) }

func UserKey(id int64) string { return "user:" + strconv.FormatInt(id, 10) }

func NewTicketRecord(t *domain.Ticket) TicketRecord {
	return TicketRecord{ID: t.ID, Subject: t.Subject, State: t.State}
}

func NewUserRecord(u *domain.User) UserRecord {
	return UserRecord{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Nop discards every write.
type Nop struct{}

func (Nop) Put(context.Context, string, any) error { return nil }
