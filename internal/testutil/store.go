package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/reelsync/internal/store"
	"github.com/stretchr/testify/require"
)

// NewStore opens a fresh SQLite store in a temp dir, closed on cleanup.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}
