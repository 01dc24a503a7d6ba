package actions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// movieSummary is what listings (trending, watchlist, credits) carry.
func movieSummary(m remote.Movie) store.Values {
	return store.Values{
		"trakt_id": m.IDs.Trakt,
		"title":    m.Title,
		"year":     m.Year,
		"slug":     m.IDs.Slug,
	}
}

func movieValues(m remote.Movie) store.Values {
	return movieSummary(m).Merge(store.Values{
		"tagline":       m.Tagline,
		"overview":      m.Overview,
		"released":      m.Released,
		"runtime":       m.Runtime,
		"certification": m.Certification,
		"rating":        m.Rating,
		"votes":         m.Votes,
		"updated_at":    millis(m.UpdatedAt),
	})
}

func showSummary(s remote.Show) store.Values {
	return store.Values{
		"trakt_id": s.IDs.Trakt,
		"title":    s.Title,
		"year":     s.Year,
		"slug":     s.IDs.Slug,
	}
}

func showValues(s remote.Show) store.Values {
	return showSummary(s).Merge(store.Values{
		"overview":   s.Overview,
		"network":    s.Network,
		"status":     s.Status,
		"runtime":    s.Runtime,
		"rating":     s.Rating,
		"votes":      s.Votes,
		"updated_at": millis(s.UpdatedAt),
	})
}

func personSummary(p remote.Person) store.Values {
	return store.Values{
		"name": p.Name,
		"slug": p.IDs.Slug,
	}
}

// upsertMovie writes a listing's movie summary and returns its local id.
// New rows keep needs_sync so the pending loop fetches the full record.
func (r *Registry) upsertMovie(ctx context.Context, m remote.Movie) (int64, error) {
	return r.Store.UpsertByTraktID(ctx, store.TableMovies, m.IDs.Trakt, movieSummary(m))
}

func (r *Registry) upsertShow(ctx context.Context, s remote.Show) (int64, error) {
	return r.Store.UpsertByTraktID(ctx, store.TableShows, s.IDs.Trakt, showSummary(s))
}

func (r *Registry) upsertPerson(ctx context.Context, p remote.Person) (int64, error) {
	return r.Store.UpsertByTraktID(ctx, store.TablePeople, p.IDs.Trakt, personSummary(p))
}

// upsertUser writes a comment or list author and returns its id.
func (r *Registry) upsertUser(ctx context.Context, u remote.User) (int64, error) {
	return r.Store.UpsertUser(ctx, u.Username, store.Values{
		"name":       u.Name,
		"avatar":     u.Images.Avatar.Full,
		"private":    u.Private,
		"vip":        u.VIP,
		"updated_at": r.now(),
	})
}

// commentValues maps a comment, upserting its author first.
func (r *Registry) commentValues(ctx context.Context, c remote.Comment) (store.Values, error) {
	v := store.Values{
		"trakt_id":    c.ID,
		"parent_id":   c.ParentID,
		"comment":     c.Comment,
		"spoiler":     c.Spoiler,
		"review":      c.Review,
		"replies":     c.Replies,
		"likes":       c.Likes,
		"user_rating": c.UserRating,
		"created_at":  millis(c.CreatedAt),
		"updated_at":  millis(c.UpdatedAt),
	}
	if c.User.Username != "" {
		userID, err := r.upsertUser(ctx, c.User)
		if err != nil {
			return nil, err
		}
		v["user_id"] = userID
	}
	return v, nil
}

// commentLookup finds a comment anywhere in the table. Comments reach the
// store through likes, replies and item listings, and the catalog may list
// the same comment under more than one of them.
func (r *Registry) commentLookup(ctx context.Context, traktID int64) (reconcile.Local, bool, error) {
	id, ok, err := r.Store.CommentID(ctx, traktID)
	return reconcile.Local{ID: id}, ok, err
}

func (r *Registry) episodeLookup(ctx context.Context, id int64) (reconcile.Local, bool, error) {
	dirty, err := r.Store.Count(ctx, store.Scope{Table: store.TableEpisodes, Where: "id = ? AND dirty != 0", Args: []any{id}})
	return reconcile.Local{ID: id, Dirty: dirty > 0}, true, err
}

// loadKeys runs a query returning (id, key...) rows and builds the local key
// map for a reconciler whose key needs a join.
func loadKeys[K comparable](ctx context.Context, st *store.Store, scan func(*sql.Rows) (int64, K, error), query string, args ...any) (map[K]reconcile.Local, error) {
	rows, err := st.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load keys: %w", err)
	}
	defer rows.Close()

	out := make(map[K]reconcile.Local)
	for rows.Next() {
		id, k, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("load keys: scan: %w", err)
		}
		out[k] = reconcile.Local{ID: id}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load keys: %w", err)
	}
	return out, nil
}

// scanTraktKey scans (id, trakt_id) rows.
func scanTraktKey(rows *sql.Rows) (int64, int64, error) {
	var id, key int64
	err := rows.Scan(&id, &key)
	return id, key, err
}

// activityStamp returns the settings op recording that the collection behind
// key is current as of since. since is 0 for manual syncs, which do not move
// the mark.
func activityStamp(key string, since int64) []store.Op {
	if since <= 0 {
		return nil
	}
	return []store.Op{store.SettingOp(key, since)}
}
