package actions

import (
	"context"
	"errors"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// Setting keys for user collections.
const (
	SettingMovieWatchlist = "movieWatchlistedAt"
	SettingMovieWatched   = "movieWatchedAt"
	SettingEpisodeWatched = "episodeWatchedAt"
)

// syncMoviesWatchlist mirrors the user's movie watchlist. since is the
// activity time that triggered the sync, or 0 for a manual sync.
type syncMoviesWatchlist struct{ r *Registry }

func (a *syncMoviesWatchlist) Key(int64) string { return "SyncMoviesWatchlist" }

func (a *syncMoviesWatchlist) Call(ctx context.Context, _ int64) ([]remote.WatchlistMovie, error) {
	return a.r.Catalog.MoviesWatchlist(ctx)
}

func (a *syncMoviesWatchlist) Handle(ctx context.Context, since int64, items []remote.WatchlistMovie) error {
	rec := &reconcile.Reconciler[remote.WatchlistMovie, int64]{
		Scope:     store.Scope{Table: store.TableMovies, Where: "in_watchlist = 1"},
		KeyColumn: "trakt_id",
		Key:       func(w remote.WatchlistMovie) int64 { return w.Movie.IDs.Trakt },
		Values: func(_ context.Context, w remote.WatchlistMovie, _ int) (store.Values, error) {
			return movieSummary(w.Movie).Merge(store.Values{"watchlisted_at": millis(w.ListedAt)}), nil
		},
		Fixed:       store.Values{"in_watchlist": 1},
		UpsertOn:    "trakt_id",
		Absent:      store.Values{"in_watchlist": 0, "watchlisted_at": 0},
		DirtyColumn: "dirty",
		Protect:     []string{"in_watchlist", "watchlisted_at"},
		Stamp:       activityStamp(SettingMovieWatchlist, since),
		URI:         store.URIWatchlist.Join("movies"),
	}
	res, err := rec.Apply(ctx, a.r.Store, items)
	if err != nil {
		return err
	}
	if len(res.Inserts) > 0 {
		return a.r.cascadePending(ctx)
	}
	return nil
}

// syncWatchedMovies mirrors the user's watched movies and play counts.
type syncWatchedMovies struct{ r *Registry }

func (a *syncWatchedMovies) Key(int64) string { return "SyncWatchedMovies" }

func (a *syncWatchedMovies) Call(ctx context.Context, _ int64) ([]remote.WatchedMovie, error) {
	return a.r.Catalog.WatchedMovies(ctx)
}

func (a *syncWatchedMovies) Handle(ctx context.Context, since int64, items []remote.WatchedMovie) error {
	rec := &reconcile.Reconciler[remote.WatchedMovie, int64]{
		Scope:     store.Scope{Table: store.TableMovies, Where: "watched = 1"},
		KeyColumn: "trakt_id",
		Key:       func(w remote.WatchedMovie) int64 { return w.Movie.IDs.Trakt },
		Values: func(_ context.Context, w remote.WatchedMovie, _ int) (store.Values, error) {
			return movieSummary(w.Movie).Merge(store.Values{
				"plays":      w.Plays,
				"watched_at": millis(w.LastWatchedAt),
			}), nil
		},
		Fixed:    store.Values{"watched": 1},
		UpsertOn: "trakt_id",
		Absent:   store.Values{"watched": 0, "plays": 0, "watched_at": 0},
		Stamp:    activityStamp(SettingMovieWatched, since),
		URI:      store.URIMovies.Join("watched"),
	}
	res, err := rec.Apply(ctx, a.r.Store, items)
	if err != nil {
		return err
	}
	if len(res.Inserts) > 0 {
		return a.r.cascadePending(ctx)
	}
	return nil
}

// syncWatchedShows mirrors which episodes the user has watched. Episodes are
// addressed by show, season and number, so only episodes already stored can
// be marked; new shows are queued for a full sync and the activity mark is
// held back until every watched episode resolved.
type syncWatchedShows struct{ r *Registry }

func (a *syncWatchedShows) Key(int64) string { return "SyncWatchedShows" }

func (a *syncWatchedShows) Call(ctx context.Context, _ int64) ([]remote.WatchedShow, error) {
	return a.r.Catalog.WatchedShows(ctx)
}

func (a *syncWatchedShows) Handle(ctx context.Context, since int64, shows []remote.WatchedShow) error {
	var episodes []int64
	unresolved := 0
	for _, s := range shows {
		if _, err := a.r.upsertShow(ctx, s.Show); err != nil {
			return err
		}
		for _, season := range s.Seasons {
			for _, ep := range season.Episodes {
				id, err := a.r.Store.EpisodeByNumber(ctx, s.Show.IDs.Trakt, season.Number, ep.Number)
				if store.IsMissingRow(err) {
					unresolved++
					continue
				}
				if err != nil {
					return err
				}
				episodes = append(episodes, id)
			}
		}
	}

	stamp := activityStamp(SettingEpisodeWatched, since)
	if unresolved > 0 {
		a.r.Logger.Info("watched episodes not stored yet", "count", unresolved)
		stamp = nil
	}

	rec := &reconcile.Reconciler[int64, int64]{
		Scope:       store.Scope{Table: store.TableEpisodes, Where: "watched = 1"},
		KeyColumn:   "id",
		Key:         func(id int64) int64 { return id },
		Lookup:      a.r.episodeLookup,
		Fixed:       store.Values{"watched": 1},
		Absent:      store.Values{"watched": 0},
		DirtyColumn: "dirty",
		Protect:     []string{"watched"},
		Stamp:       stamp,
		URI:         store.URIShows.Join("watched"),
	}
	if _, err := rec.Apply(ctx, a.r.Store, episodes); err != nil {
		return err
	}
	return a.r.cascadePending(ctx)
}

// syncWatching mirrors what the user is checked in to. A 204 from the
// catalog means nothing, which clears every local check-in.
type syncWatching struct{ r *Registry }

func (a *syncWatching) Key(struct{}) string { return "SyncWatching" }

func (a *syncWatching) Call(ctx context.Context, _ struct{}) (*remote.Watching, error) {
	return a.r.Catalog.Watching(ctx, a.r.Username)
}

func (a *syncWatching) Handle(ctx context.Context, _ struct{}, w *remote.Watching) error {
	var items []remote.Watching
	if w != nil {
		switch w.Type {
		case remote.KindMovie:
			if w.Movie != nil {
				items = append(items, *w)
			}
		case remote.KindEpisode, remote.KindShow:
			// Episode check-ins only need the show present locally.
			if w.Show != nil {
				if _, err := a.r.upsertShow(ctx, *w.Show); err != nil {
					return err
				}
			}
		case remote.KindSeason, remote.KindPerson, remote.KindList, remote.KindComment:
		}
	}

	rec := &reconcile.Reconciler[remote.Watching, int64]{
		Scope:     store.Scope{Table: store.TableMovies, Where: "watching != 0 OR checked_in != 0"},
		KeyColumn: "trakt_id",
		Key:       func(w remote.Watching) int64 { return w.Movie.IDs.Trakt },
		Values: func(_ context.Context, w remote.Watching, _ int) (store.Values, error) {
			return movieSummary(*w.Movie).Merge(store.Values{
				"watching":   1,
				"checked_in": boolInt(w.Action == "checkin"),
				"started_at": millis(w.StartedAt),
				"expires_at": millis(w.ExpiresAt),
			}), nil
		},
		UpsertOn: "trakt_id",
		Absent:   store.Values{"watching": 0, "checked_in": 0, "started_at": 0, "expires_at": 0},
		URI:      store.URIMovies.Join("watching"),
	}
	_, err := rec.Apply(ctx, a.r.Store, items)
	return err
}

// syncUserActivity compares the catalog's last-activity marks with the
// stored ones and runs the collection syncs that fell behind, in parallel.
// Each collection sync stores its own mark when it succeeds, so a failed
// one is retried on the next pass.
type syncUserActivity struct{ r *Registry }

func (a *syncUserActivity) Key(struct{}) string { return "SyncUserActivity" }

func (a *syncUserActivity) Call(ctx context.Context, _ struct{}) (remote.LastActivities, error) {
	return a.r.Catalog.LastActivities(ctx)
}

func (a *syncUserActivity) Handle(ctx context.Context, _ struct{}, act remote.LastActivities) error {
	type cascade struct {
		setting string
		remote  int64
		run     func(since int64) *action.Handle
	}
	invoke := func(target action.Action[int64]) func(int64) *action.Handle {
		return func(since int64) *action.Handle {
			return action.InvokeAsync(ctx, a.r.Manager, target, since)
		}
	}

	hiddenAt := max(millis(act.Movies.HiddenAt), millis(act.Shows.HiddenAt))
	checks := []cascade{
		{SettingMovieWatched, millis(act.Movies.WatchedAt), invoke(a.r.SyncWatchedMovies)},
		{SettingMovieWatchlist, millis(act.Movies.WatchlistedAt), invoke(a.r.SyncMoviesWatchlist)},
		{SettingEpisodeWatched, millis(act.Episodes.WatchedAt), invoke(a.r.SyncWatchedShows)},
		{SettingCommentLiked, millis(act.Comments.LikedAt), invoke(a.r.SyncCommentLikes)},
		{SettingMovieHidden, hiddenAt, invoke(a.r.SyncHiddenRecommendations)},
	}

	var handles []*action.Handle
	for _, c := range checks {
		local, err := a.r.Store.Setting(ctx, c.setting)
		if err != nil {
			return err
		}
		if c.remote > local {
			a.r.Logger.Info("activity changed", "setting", c.setting, "local", local, "remote", c.remote)
			handles = append(handles, c.run(c.remote))
		}
	}

	var errs []error
	for _, h := range handles {
		if err := h.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
