// Package testutils provides fixtures shared by package tests.
package testutils

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/persistence"
	"github.com/spec-kit/support-tickets/internal/repository/sqlite"
)

// NewSQLiteStore returns a migrated store in a temp directory, closed on cleanup.
func NewSQLiteStore(t *testing.T) (*sqlite.Store, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.OpenSQLite(ctx, filepath.Join(t.TempDir(), "tickets.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, persistence.RunSQLiteMigrations(ctx, db, zap.NewNop()))
	return sqlite.NewStore(db), db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
