package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tickets.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunSQLiteMigrations(ctx, db, zap.NewNop()))
	require.NoError(t, RunSQLiteMigrations(ctx, db, zap.NewNop()))

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','tickets','interactions')`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSQLiteEnforcesForeignKeysAndAppendOnly(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tickets.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunSQLiteMigrations(ctx, db, zap.NewNop()))

	_, err = db.ExecContext(ctx,
		`INSERT INTO tickets (user_id, subject, state, priority, created_at) VALUES (99, 's', 'open', 'low', 'now')`)
	assert.ErrorContains(t, err, "FOREIGN KEY")

	_, err = db.ExecContext(ctx, `INSERT INTO users (name, email, role, created_at) VALUES ('a', 'a@x.io', 'client', 'now')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO tickets (user_id, subject, state, priority, created_at) VALUES (1, 's', 'open', 'low', 'now')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO interactions (ticket_id, author, message, created_at) VALUES (1, 'client', 'm', 'now')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE interactions SET message='x'`)
	assert.ErrorContains(t, err, "append-only")
	_, err = db.ExecContext(ctx, `DELETE FROM interactions`)
	assert.ErrorContains(t, err, "append-only")
}
