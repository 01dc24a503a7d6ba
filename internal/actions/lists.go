package actions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// syncList refreshes a list's metadata and then its items.
type syncList struct{ r *Registry }

func (a *syncList) Key(traktID int64) string {
	return fmt.Sprintf("SyncList&traktId=%d", traktID)
}

func (a *syncList) Call(ctx context.Context, traktID int64) (remote.List, error) {
	return a.r.Catalog.List(ctx, traktID)
}

func (a *syncList) Handle(ctx context.Context, traktID int64, l remote.List) error {
	v := store.Values{
		"slug":        l.IDs.Slug,
		"name":        l.Name,
		"description": l.Description,
		"privacy":     l.Privacy,
		"item_count":  l.ItemCount,
		"likes":       l.Likes,
		"updated_at":  millis(l.UpdatedAt),
	}
	if l.User.Username != "" {
		userID, err := a.r.upsertUser(ctx, l.User)
		if err != nil {
			return err
		}
		v["user_id"] = userID
	}
	if _, err := a.r.Store.UpsertByTraktID(ctx, store.TableLists, traktID, v); err != nil {
		return err
	}
	return action.InvokeSync(ctx, a.r.Manager, a.r.SyncListItems, traktID)
}

// itemKey identifies a list entry by kind and catalog id.
type itemKey struct {
	Kind    remote.ItemKind
	TraktID int64
}

// listEntry is a list item resolved to its local row.
type listEntry struct {
	itemKey
	LocalID  int64
	ListedAt int64
}

func scanItemKey(rows *sql.Rows) (int64, itemKey, error) {
	var (
		id    int64
		kind  string
		trakt sql.NullInt64
	)
	if err := rows.Scan(&id, &kind, &trakt); err != nil {
		return 0, itemKey{}, err
	}
	return id, itemKey{Kind: remote.ItemKind(kind), TraktID: trakt.Int64}, nil
}

// syncListItems mirrors the ordered items of a list. Items are resolved to
// local rows first, creating bare movies, shows and people that the pending
// loops then fill in.
type syncListItems struct{ r *Registry }

func (a *syncListItems) Key(traktID int64) string {
	return fmt.Sprintf("SyncListItems&traktId=%d", traktID)
}

func (a *syncListItems) Call(ctx context.Context, traktID int64) ([]remote.ListEntry, error) {
	return a.r.Catalog.ListItems(ctx, traktID)
}

func (a *syncListItems) IgnoreError(err error) bool {
	return remote.IsGone(err)
}

// resolve maps one entry to its local row. ok is false for entries that
// cannot be stored yet.
func (a *syncListItems) resolve(ctx context.Context, e remote.ListEntry) (listEntry, bool, error) {
	out := listEntry{itemKey: itemKey{Kind: e.Type}, ListedAt: millis(e.ListedAt)}
	var err error

	switch e.Type {
	case remote.KindMovie:
		if e.Movie == nil {
			return out, false, nil
		}
		out.TraktID = e.Movie.IDs.Trakt
		out.LocalID, err = a.r.upsertMovie(ctx, *e.Movie)
	case remote.KindShow:
		if e.Show == nil {
			return out, false, nil
		}
		out.TraktID = e.Show.IDs.Trakt
		out.LocalID, err = a.r.upsertShow(ctx, *e.Show)
	case remote.KindSeason:
		if e.Show == nil || e.Season == nil {
			return out, false, nil
		}
		var showID int64
		showID, err = a.r.upsertShow(ctx, *e.Show)
		if err != nil {
			return out, false, err
		}
		out.TraktID = e.Season.IDs.Trakt
		out.LocalID, err = a.r.Store.SeasonIDOrCreate(ctx, showID, e.Season.IDs.Trakt, e.Season.Number)
	case remote.KindEpisode:
		if e.Show == nil || e.Episode == nil {
			return out, false, nil
		}
		// Episodes need their season row; until the show is synced the entry
		// waits for the next pass.
		if _, err = a.r.upsertShow(ctx, *e.Show); err != nil {
			return out, false, err
		}
		out.TraktID = e.Episode.IDs.Trakt
		var ok bool
		out.LocalID, ok, err = a.r.Store.LookupID(ctx, store.TableEpisodes, "trakt_id", e.Episode.IDs.Trakt)
		if err != nil || !ok {
			return out, false, err
		}
	case remote.KindPerson:
		if e.Person == nil {
			return out, false, nil
		}
		out.TraktID = e.Person.IDs.Trakt
		out.LocalID, err = a.r.upsertPerson(ctx, *e.Person)
	case remote.KindList, remote.KindComment:
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	return out, true, nil
}

func (a *syncListItems) Handle(ctx context.Context, traktID int64, entries []remote.ListEntry) error {
	listID, err := a.r.Store.ListID(ctx, traktID)
	if err != nil {
		return err
	}

	resolved := make([]listEntry, 0, len(entries))
	for _, e := range entries {
		le, ok, err := a.resolve(ctx, e)
		if err != nil {
			return err
		}
		if !ok {
			a.r.Logger.Debug("list entry skipped", "list", traktID, "type", e.Type)
			continue
		}
		resolved = append(resolved, le)
	}

	rec := &reconcile.Reconciler[listEntry, itemKey]{
		Scope: store.Scope{Table: store.TableListItems, Where: "list_id = ?", Args: []any{listID}},
		LoadKeys: func(ctx context.Context) (map[itemKey]reconcile.Local, error) {
			return loadKeys(ctx, a.r.Store, scanItemKey, `
				SELECT li.id, li.item_type, CASE li.item_type
					WHEN 'movie' THEN (SELECT trakt_id FROM movies WHERE id = li.item_id)
					WHEN 'show' THEN (SELECT trakt_id FROM shows WHERE id = li.item_id)
					WHEN 'season' THEN (SELECT trakt_id FROM seasons WHERE id = li.item_id)
					WHEN 'episode' THEN (SELECT trakt_id FROM episodes WHERE id = li.item_id)
					WHEN 'person' THEN (SELECT trakt_id FROM people WHERE id = li.item_id)
				END
				FROM list_items li WHERE li.list_id = ?`, listID)
		},
		Key: func(e listEntry) itemKey { return e.itemKey },
		Values: func(_ context.Context, e listEntry, _ int) (store.Values, error) {
			return store.Values{
				"item_type": string(e.Kind),
				"item_id":   e.LocalID,
				"listed_at": e.ListedAt,
			}, nil
		},
		Fixed: store.Values{"list_id": listID},
		Index: "list_index",
		Stamp: []store.Op{
			store.UpdateByID(store.TableLists, listID, store.Values{"last_sync": a.r.now()}, ""),
		},
		URI: store.URILists.Join(traktID),
	}
	if _, err := rec.Apply(ctx, a.r.Store, resolved); err != nil {
		return err
	}

	return a.r.cascadePending(ctx)
}
