package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EpisodeByNumber returns the local id of an episode addressed the way the
// catalog addresses it: show trakt id plus season and episode numbers.
func (s *Store) EpisodeByNumber(ctx context.Context, showTraktID int64, season, number int) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT e.id FROM episodes e
		JOIN shows s ON s.id = e.show_id
		WHERE s.trakt_id = ? AND e.season = ? AND e.number = ?`,
		showTraktID, season, number,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, missingRow(TableEpisodes, fmt.Sprintf("%d/%d/%d", showTraktID, season, number))
	}
	if err != nil {
		return 0, fmt.Errorf("episode by number: %w", err)
	}
	return id, nil
}

// DirtyMovie is a movie with local edits waiting to be pushed.
type DirtyMovie struct {
	TraktID int64
	MoviePending
}

// DirtyMovies returns every movie with unsynced local edits.
func (s *Store) DirtyMovies(ctx context.Context) ([]DirtyMovie, error) {
	rows, err := s.Query(ctx, Query{
		Scope:   Scope{Table: TableMovies, Where: "dirty != 0"},
		Columns: []string{"trakt_id", "pending_rating", "pending_watchlist"},
		OrderBy: "id ASC",
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DirtyMovie{}
	for rows.Next() {
		m := DirtyMovie{MoviePending: MoviePending{Dirty: true}}
		if err := rows.Scan(&m.TraktID, &m.Rating, &m.Watchlist); err != nil {
			return nil, fmt.Errorf("scan dirty movie: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dirty movies: %w", err)
	}
	return out, nil
}

// MoviePushedOps builds the batch that records a successful push of the
// value pushed for the pending column. v is written and the pending column
// cleared only while the row still holds that value (or nothing); a newer
// local edit made during the push stays pending. The row stops being dirty
// once no pending column remains.
func MoviePushedOps(traktID int64, pending string, pushed any, v Values) []Op {
	uri := URIMovies.Join(traktID)
	return []Op{
		{
			Kind:   OpUpdate,
			Table:  TableMovies,
			Where:  fmt.Sprintf("trakt_id = ? AND (%[1]s IS NULL OR %[1]s = ?)", pending),
			Args:   []any{traktID, pushed},
			Values: v.Merge(Values{pending: nil}),
			URI:    uri,
		},
		{
			Kind:   OpUpdate,
			Table:  TableMovies,
			Where:  "trakt_id = ? AND pending_rating IS NULL AND pending_watchlist IS NULL",
			Args:   []any{traktID},
			Values: Values{"dirty": 0},
			URI:    uri,
		},
	}
}

// ClearWatchingOp resets the check-in state of every movie.
func ClearWatchingOp() Op {
	return Op{
		Kind:   OpUpdate,
		Table:  TableMovies,
		Where:  "watching != 0 OR checked_in != 0",
		Values: Values{"watching": 0, "checked_in": 0, "started_at": 0, "expires_at": 0},
		URI:    URIMovies.Join("watching"),
	}
}

// WatchingMovie returns the trakt id of the movie currently being watched.
func (s *Store) WatchingMovie(ctx context.Context) (int64, bool, error) {
	ids, err := s.Int64s(ctx, Scope{Table: TableMovies, Where: "watching != 0"}, "trakt_id", "started_at DESC")
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}
