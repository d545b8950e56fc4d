package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-tickets/internal/domain"
)

func openTestPebble(t *testing.T, ttl time.Duration) *Pebble {
	t.Helper()
	p, err := OpenPebble(t.TempDir(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

// readPebble decodes the live value under key into dest. It reports false
// when the key is absent or its entry has expired.
func readPebble(t *testing.T, p *Pebble, key string, dest any) bool {
	t.Helper()
	data, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	defer closer.Close()

	var entry pebbleEntry
	require.NoError(t, json.Unmarshal(data, &entry))
	if entry.ExpiresAt != 0 && p.now().UnixNano() >= entry.ExpiresAt {
		return false
	}
	require.NoError(t, json.Unmarshal(entry.Value, dest))
	return true
}

func TestPebblePut(t *testing.T) {
	p := openTestPebble(t, 0)
	ctx := context.Background()

	ticket := &domain.Ticket{ID: 7, Subject: "VPN down", State: domain.TicketStateInProgress}
	require.NoError(t, p.Put(ctx, TicketKey(ticket.ID), NewTicketRecord(ticket)))

	var got TicketRecord
	require.True(t, readPebble(t, p, "ticket:7", &got))
	assert.Equal(t, NewTicketRecord(ticket), got)
}

func TestPebbleEntriesExpire(t *testing.T) {
	p := openTestPebble(t, time.Minute)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	var got UserRecord
	assert.False(t, readPebble(t, p, UserKey(1), &got))

	require.NoError(t, p.Put(ctx, UserKey(1), UserRecord{ID: 1, Name: "Ana", Role: domain.RoleClient}))
	require.True(t, readPebble(t, p, UserKey(1), &got))
	assert.Equal(t, "Ana", got.Name)

	now = now.Add(2 * time.Minute)
	assert.False(t, readPebble(t, p, UserKey(1), &got))
}

func TestRecordJSONUsesWireEnums(t *testing.T) {
	p := openTestPebble(t, 0)
	ctx := context.Background()
	require.NoError(t, p.Put(ctx, "user:3", UserRecord{ID: 3, Name: "Op", Role: domain.RoleOperator}))

	var raw map[string]any
	require.True(t, readPebble(t, p, "user:3", &raw))
	assert.Equal(t, "operator", raw["role"])
}
