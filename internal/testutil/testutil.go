package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"woodpecker/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, sharing the exact open path production uses.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
