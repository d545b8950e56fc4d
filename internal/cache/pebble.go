package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// Pebble is a node-local cache for deployments without redis. Pebble has no
// native TTL, so each value is wrapped with its expiry for readers to check.
type Pebble struct {
	db  *pebble.DB
	ttl time.Duration
	now func() time.Time
}

type pebbleEntry struct {
	ExpiresAt int64           `json:"expires_at,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// OpenPebble opens (or creates) the cache directory.
func OpenPebble(dir string, ttl time.Duration) (*Pebble, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("cache: open pebble %s: %w", dir, err)
	}
	return &Pebble{db: db, ttl: ttl, now: time.Now}, nil
}

func (p *Pebble) Put(_ context.Context, key string, record any) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	entry := pebbleEntry{Value: value}
	if p.ttl > 0 {
		entry.ExpiresAt = p.now().Add(p.ttl).UnixNano()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := p.db.Set([]byte(key), data, pebble.NoSync); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
