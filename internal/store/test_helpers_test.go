package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertMovie creates a movie row with a title and returns its id.
func insertMovie(t *testing.T, s *Store, traktID int64, title string) int64 {
	t.Helper()
	id, err := s.UpsertByTraktID(context.Background(), TableMovies, traktID, Values{"title": title})
	if err != nil {
		t.Fatalf("insert movie %d: %v", traktID, err)
	}
	return id
}

// queryInt reads a single integer from the database.
func queryInt(t *testing.T, s *Store, query string, args ...any) int64 {
	t.Helper()
	var v int64
	if err := s.db.QueryRow(query, args...).Scan(&v); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return v
}
