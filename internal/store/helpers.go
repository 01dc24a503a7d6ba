package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Table names shared by the helpers and the sync actions.
const (
	TableUsers         = "users"
	TablePeople        = "people"
	TableShows         = "shows"
	TableSeasons       = "seasons"
	TableEpisodes      = "episodes"
	TableMovies        = "movies"
	TableRelatedMovies = "related_movies"
	TableMovieCast     = "movie_cast"
	TableMovieCrew     = "movie_crew"
	TableShowCast      = "show_cast"
	TableShowCrew      = "show_crew"
	TableComments      = "comments"
	TableLists         = "lists"
	TableListItems     = "list_items"
	TableSettings      = "settings"
)

// tableURI maps a table to its notification root.
func tableURI(table string) URI {
	switch table {
	case TableMovies, TableRelatedMovies, TableMovieCast, TableMovieCrew:
		return URIMovies
	case TableShows, TableSeasons, TableEpisodes, TableShowCast, TableShowCrew:
		return URIShows
	case TablePeople:
		return URIPeople
	case TableComments:
		return URIComments
	case TableLists, TableListItems:
		return URILists
	case TableSettings:
		return URISettings
	case TableUsers:
		return URIUser
	default:
		return URI("reelsync://" + table)
	}
}

// LookupID returns the surrogate id of the row whose column equals key.
func (s *Store) LookupID(ctx context.Context, table, column string, key any) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", table, column), key,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup %s.%s: %w", table, column, err)
	}
	return id, true, nil
}

// requireID is LookupID that turns absence into a MissingRowError.
func (s *Store) requireID(ctx context.Context, table string, traktID int64) (int64, error) {
	id, ok, err := s.LookupID(ctx, table, "trakt_id", traktID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, missingRow(table, traktID)
	}
	return id, nil
}

// MovieID returns the local id of a movie, or a MissingRowError.
func (s *Store) MovieID(ctx context.Context, traktID int64) (int64, error) {
	return s.requireID(ctx, TableMovies, traktID)
}

// ShowID returns the local id of a show, or a MissingRowError.
func (s *Store) ShowID(ctx context.Context, traktID int64) (int64, error) {
	return s.requireID(ctx, TableShows, traktID)
}

// EpisodeID returns the local id of an episode, or a MissingRowError.
func (s *Store) EpisodeID(ctx context.Context, traktID int64) (int64, error) {
	return s.requireID(ctx, TableEpisodes, traktID)
}

// PersonID returns the local id of a person, or a MissingRowError.
func (s *Store) PersonID(ctx context.Context, traktID int64) (int64, error) {
	return s.requireID(ctx, TablePeople, traktID)
}

// ListID returns the local id of a list, or a MissingRowError.
func (s *Store) ListID(ctx context.Context, traktID int64) (int64, error) {
	return s.requireID(ctx, TableLists, traktID)
}

// CommentID returns the local id of a comment by its trakt id, anywhere in the
// table. ok is false when the comment has never been stored.
func (s *Store) CommentID(ctx context.Context, traktID int64) (int64, bool, error) {
	return s.LookupID(ctx, TableComments, "trakt_id", traktID)
}

// CommentItem returns the item a stored comment belongs to.
func (s *Store) CommentItem(ctx context.Context, traktID int64) (itemType string, itemID int64, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT item_type, item_id FROM comments WHERE trakt_id = ?", traktID,
	).Scan(&itemType, &itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, missingRow(TableComments, traktID)
	}
	if err != nil {
		return "", 0, fmt.Errorf("comment item: %w", err)
	}
	return itemType, itemID, nil
}

// UpsertByTraktID writes v into the row keyed by traktID, creating it if
// needed, and returns its surrogate id. Columns absent from v keep their
// current (or default) values.
func (s *Store) UpsertByTraktID(ctx context.Context, table string, traktID int64, v Values) (int64, error) {
	op := Upsert(table, "trakt_id", v.Merge(Values{"trakt_id": traktID}), tableURI(table).Join(traktID))
	ids, err := s.Apply(ctx, []Op{op})
	if err != nil {
		return 0, fmt.Errorf("upsert %s %d: %w", table, traktID, err)
	}
	return ids[0], nil
}

// IDOrCreate returns the id of the row keyed by traktID, inserting a bare row
// (schema defaults, needs_sync where present) when none exists. created
// reports whether a row was inserted.
func (s *Store) IDOrCreate(ctx context.Context, table string, traktID int64) (id int64, created bool, err error) {
	return s.idOrCreate(ctx, table, Values{"trakt_id": traktID})
}

// idOrCreate uses a transaction so the insert-or-select is atomic.
func (s *Store) idOrCreate(ctx context.Context, table string, v Values) (id int64, created bool, err error) {
	traktID := v["trakt_id"]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("id or create %s: begin tx: %w", table, err)
	}
	defer tx.Rollback() // No-op if committed

	cols := v.Columns()
	result, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(trakt_id) DO NOTHING",
			table, strings.Join(cols, ", "), placeholders(len(cols))),
		valueArgs(v, cols)...,
	)
	if err != nil {
		return 0, false, fmt.Errorf("id or create %s: insert: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("id or create %s: rows affected: %w", table, err)
	}

	if rowsAffected > 0 {
		id, err = result.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("id or create %s: last insert id: %w", table, err)
		}
		created = true
	} else {
		err = tx.QueryRowContext(ctx,
			fmt.Sprintf("SELECT id FROM %s WHERE trakt_id = ?", table), traktID,
		).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("id or create %s: select existing: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("id or create %s: commit: %w", table, err)
	}

	if created {
		s.notifier.Publish([]URI{tableURI(table).Join(traktID)})
	}
	return id, created, nil
}

// SeasonIDOrCreate returns the id of a season, creating it under showID.
func (s *Store) SeasonIDOrCreate(ctx context.Context, showID, traktID int64, number int) (int64, error) {
	id, _, err := s.idOrCreate(ctx, TableSeasons, Values{
		"trakt_id": traktID,
		"show_id":  showID,
		"number":   number,
	})
	return id, err
}

// EpisodeIDOrCreate returns the id of an episode, creating it under its
// show and season.
func (s *Store) EpisodeIDOrCreate(ctx context.Context, showID, seasonID, traktID int64, season, number int) (int64, error) {
	id, _, err := s.idOrCreate(ctx, TableEpisodes, Values{
		"trakt_id":  traktID,
		"show_id":   showID,
		"season_id": seasonID,
		"season":    season,
		"number":    number,
	})
	return id, err
}

// NormalizeUsername returns the canonical form used as the users key.
// Usernames are NFC-normalized so visually identical names share one row.
func NormalizeUsername(username string) string {
	return norm.NFC.String(username)
}

// UpsertUser writes profile fields for username and returns the user's id.
func (s *Store) UpsertUser(ctx context.Context, username string, v Values) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("upsert user: empty username")
	}

	key := NormalizeUsername(username)
	op := Upsert(TableUsers, "username", v.Merge(Values{"username": key}), URIUser.Join(key))
	ids, err := s.Apply(ctx, []Op{op})
	if err != nil {
		return 0, fmt.Errorf("upsert user %q: %w", key, err)
	}
	return ids[0], nil
}

// Setting reads an activity timestamp; unset keys read as 0.
func (s *Store) Setting(ctx context.Context, key string) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read setting %q: %w", key, err)
	}
	return v, nil
}

// SettingOp builds the op that stores an activity timestamp, so it can
// commit in the same batch as the data it describes.
func SettingOp(key string, value int64) Op {
	return Upsert(TableSettings, "key", Values{"key": key, "value": value}, URISettings.Join(key))
}

// SetSetting stores an activity timestamp.
func (s *Store) SetSetting(ctx context.Context, key string, value int64) error {
	if _, err := s.Apply(ctx, []Op{SettingOp(key, value)}); err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

// PendingMovies returns trakt ids of movies flagged needs_sync, oldest first.
func (s *Store) PendingMovies(ctx context.Context, limit int) ([]int64, error) {
	return s.pending(ctx, TableMovies, limit)
}

// PendingShows returns trakt ids of shows flagged needs_sync, oldest first.
func (s *Store) PendingShows(ctx context.Context, limit int) ([]int64, error) {
	return s.pending(ctx, TableShows, limit)
}

func (s *Store) pending(ctx context.Context, table string, limit int) ([]int64, error) {
	rows, err := s.Query(ctx, Query{
		Scope:   Scope{Table: table, Where: "needs_sync = 1"},
		Columns: []string{"trakt_id"},
		OrderBy: "last_sync ASC, id ASC",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending %s: %w", table, err)
	}
	return ids, nil
}

// MarkMovieRating records a local rating that has not been pushed yet.
func (s *Store) MarkMovieRating(ctx context.Context, traktID int64, rating int) error {
	return s.markMovie(ctx, traktID, Values{"pending_rating": rating, "dirty": 1})
}

// MarkMovieWatchlist records a local watchlist edit that has not been pushed yet.
func (s *Store) MarkMovieWatchlist(ctx context.Context, traktID int64, inWatchlist bool) error {
	return s.markMovie(ctx, traktID, Values{"pending_watchlist": boolInt(inWatchlist), "dirty": 1})
}

func (s *Store) markMovie(ctx context.Context, traktID int64, v Values) error {
	_, err := s.Apply(ctx, []Op{{
		Kind:    OpUpdate,
		Table:   TableMovies,
		Where:   "trakt_id = ?",
		Args:    []any{traktID},
		Values:  v,
		Require: true,
		URI:     URIMovies.Join(traktID),
	}})
	if err != nil {
		return fmt.Errorf("mark movie %d: %w", traktID, err)
	}
	return nil
}

// MoviePending is the unsynced local state of one movie.
type MoviePending struct {
	Rating    sql.NullInt64
	Watchlist sql.NullInt64
	Dirty     bool
}

// MoviePendingState reads the pending edits of a movie.
func (s *Store) MoviePendingState(ctx context.Context, traktID int64) (MoviePending, error) {
	var p MoviePending
	var dirty int
	err := s.db.QueryRowContext(ctx,
		"SELECT pending_rating, pending_watchlist, dirty FROM movies WHERE trakt_id = ?", traktID,
	).Scan(&p.Rating, &p.Watchlist, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return MoviePending{}, missingRow(TableMovies, traktID)
	}
	if err != nil {
		return MoviePending{}, fmt.Errorf("movie pending state: %w", err)
	}
	p.Dirty = dirty != 0
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
