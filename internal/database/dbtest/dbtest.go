// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/database"
)

// Open returns a migrated database stored in a temp dir that is removed
// when the test ends.
func Open(t testing.TB) *database.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(context.Background(), database.Config{Driver: "sqlite", URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
