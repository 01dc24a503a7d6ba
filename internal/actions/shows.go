package actions

import (
	"context"
	"fmt"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// syncShow refreshes one show's summary, then its seasons and episodes.
type syncShow struct{ r *Registry }

func (a *syncShow) Key(traktID int64) string {
	return fmt.Sprintf("SyncShow&traktId=%d", traktID)
}

func (a *syncShow) Call(ctx context.Context, traktID int64) (remote.Show, error) {
	return a.r.Catalog.Show(ctx, traktID)
}

func (a *syncShow) Handle(ctx context.Context, traktID int64, s remote.Show) error {
	if _, err := a.r.Store.UpsertByTraktID(ctx, store.TableShows, traktID, showValues(s)); err != nil {
		return err
	}
	if err := action.InvokeSync(ctx, a.r.Manager, a.r.SyncSeasons, traktID); err != nil {
		return err
	}

	// needs_sync clears only once the seasons are in.
	_, err := a.r.Store.Apply(ctx, []store.Op{{
		Kind:   store.OpUpdate,
		Table:  store.TableShows,
		Where:  "trakt_id = ?",
		Args:   []any{traktID},
		Values: store.Values{"needs_sync": 0, "last_sync": a.r.now()},
		URI:    store.URIShows.Join(traktID),
	}})
	return err
}

// syncSeasons mirrors the seasons of a show and the episodes of each season.
type syncSeasons struct{ r *Registry }

func (a *syncSeasons) Key(showTraktID int64) string {
	return fmt.Sprintf("SyncSeasons&traktId=%d", showTraktID)
}

func (a *syncSeasons) Call(ctx context.Context, showTraktID int64) ([]remote.Season, error) {
	return a.r.Catalog.Seasons(ctx, showTraktID)
}

func (a *syncSeasons) Handle(ctx context.Context, showTraktID int64, seasons []remote.Season) error {
	showID, err := a.r.Store.ShowID(ctx, showTraktID)
	if err != nil {
		return err
	}
	uri := store.URIShows.Join(showTraktID, "seasons")

	seasonRec := &reconcile.Reconciler[remote.Season, int64]{
		Scope:     store.Scope{Table: store.TableSeasons, Where: "show_id = ?", Args: []any{showID}},
		KeyColumn: "trakt_id",
		Key:       func(s remote.Season) int64 { return s.IDs.Trakt },
		Values: func(_ context.Context, s remote.Season, _ int) (store.Values, error) {
			return store.Values{
				"trakt_id":       s.IDs.Trakt,
				"number":         s.Number,
				"title":          s.Title,
				"overview":       s.Overview,
				"episode_count":  s.EpisodeCount,
				"aired_episodes": s.AiredEpisodes,
				"rating":         s.Rating,
				"votes":          s.Votes,
			}, nil
		},
		Fixed: store.Values{"show_id": showID},
		URI:   uri,
	}
	if _, err := seasonRec.Apply(ctx, a.r.Store, seasons); err != nil {
		return err
	}

	// Episodes need the season ids the first batch assigned.
	results := make([]reconcile.Result, 0, len(seasons))
	for _, s := range seasons {
		seasonID, err := a.r.Store.SeasonIDOrCreate(ctx, showID, s.IDs.Trakt, s.Number)
		if err != nil {
			return err
		}
		res, err := a.episodes(showID, seasonID, uri).Plan(ctx, a.r.Store, s.Episodes)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return reconcile.ApplyAll(ctx, a.r.Store, results...)
}

func (a *syncSeasons) episodes(showID, seasonID int64, uri store.URI) *reconcile.Reconciler[remote.Episode, int64] {
	return &reconcile.Reconciler[remote.Episode, int64]{
		Scope:     store.Scope{Table: store.TableEpisodes, Where: "season_id = ?", Args: []any{seasonID}},
		KeyColumn: "trakt_id",
		Key:       func(e remote.Episode) int64 { return e.IDs.Trakt },
		Values: func(_ context.Context, e remote.Episode, _ int) (store.Values, error) {
			v := store.Values{
				"trakt_id": e.IDs.Trakt,
				"season":   e.Season,
				"number":   e.Number,
				"title":    e.Title,
				"overview": e.Overview,
				"runtime":  e.Runtime,
				"rating":   e.Rating,
				"votes":    e.Votes,
			}
			if e.FirstAired != nil {
				v["first_aired"] = millis(*e.FirstAired)
			}
			return v, nil
		},
		Fixed:       store.Values{"show_id": showID, "season_id": seasonID},
		DirtyColumn: "dirty",
		Protect:     []string{"watched"},
		URI:         uri,
	}
}
