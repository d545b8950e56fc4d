// Package sqlite implements the repositories on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spec-kit/support-tickets/internal/repository"
)

// Timestamps are stored as fixed-width UTC text so lexical order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the sqlite-backed repository.Store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// NewStore wraps an open database whose schema is already migrated.
func NewStore(db *sql.DB) *Store {
	clk := &clock{source: time.Now}
	return &Store{db: db, now: clk.now}
}

// clock issues strictly increasing UTC timestamps, so created_at order matches
// insert order even if the wall clock steps backwards.
type clock struct {
	mu     sync.Mutex
	last   time.Time
	source func() time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.source().UTC().Round(0)
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

func (s *Store) Repositories() repository.Repositories {
	return s.reposFor(s.db)
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	if err := fn(ctx, s.reposFor(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) reposFor(q querier) repository.Repositories {
	return repository.Repositories{
		Users:        &userRepository{q: q, now: s.now},
		Tickets:      &ticketRepository{q: q, now: s.now},
		Interactions: &interactionRepository{q: q, now: s.now},
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return fmt.Errorf("%w: %w", repository.ErrDuplicate, err)
		case strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%w: %w", repository.ErrReference, err)
		}
	}
	return err
}
