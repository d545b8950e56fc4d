// Package notify signals downstream processing that a ticket changed. Delivery
// is best-effort with no ordering guarantee between signals.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/events"
)

// Notifier sends a state-change signal for ticketID.
type Notifier interface {
	Send(ctx context.Context, ticketID int64) error
}

// RedisQueue pushes tasks onto a redis list consumed by the batch worker.
type RedisQueue struct {
	client redis.Cmdable
	key    string
}

func NewRedisQueue(client redis.Cmdable, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Send(ctx context.Context, ticketID int64) error {
	payload, err := json.Marshal(events.NewEvent(events.EventTicketStateChanged, ticketID))
	if err != nil {
		return fmt.Errorf("notify: encode: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("notify: lpush %s: %w", q.key, err)
	}
	return nil
}

// Log writes the task to the structured log instead of a queue.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, ticketID int64) error {
	event := events.NewEvent(events.EventTicketStateChanged, ticketID)
	l.logger.Info("ticket notification",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID))
	return nil
}

// Nop drops every signal.
type Nop struct{}

func (Nop) Send(context.Context, int64) error { return nil }
