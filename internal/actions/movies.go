package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// syncMovie refreshes one movie's summary and clears its needs_sync flag.
type syncMovie struct{ r *Registry }

func (a *syncMovie) Key(traktID int64) string {
	return fmt.Sprintf("SyncMovie&traktId=%d", traktID)
}

func (a *syncMovie) Call(ctx context.Context, traktID int64) (remote.Movie, error) {
	return a.r.Catalog.Movie(ctx, traktID)
}

func (a *syncMovie) Handle(ctx context.Context, traktID int64, m remote.Movie) error {
	v := movieValues(m).Merge(store.Values{
		"needs_sync": 0,
		"last_sync":  a.r.now(),
	})
	_, err := a.r.Store.UpsertByTraktID(ctx, store.TableMovies, traktID, v)
	return err
}

// pendingLoop syncs every row the pending query returns, one item at a time.
// The manager's stop flag is checked between items; one failing item does
// not abort the rest.
func pendingLoop(r *Registry, key string, pending func(context.Context, int) ([]int64, error), each action.Action[int64]) action.Action[struct{}] {
	return action.Func[struct{}]{
		KeyFunc: func(struct{}) string { return key },
		InvokeFunc: func(ctx context.Context, _ struct{}) error {
			ids, err := pending(ctx, 0)
			if err != nil {
				return err
			}

			var errs []error
			for i, id := range ids {
				if r.Manager.Stopped() {
					r.Logger.Info("pending sync stopped", "key", key, "done", i, "remaining", len(ids)-i)
					break
				}
				if err := action.InvokeSync(ctx, r.Manager, each, id); err != nil {
					errs = append(errs, err)
				}
			}
			if len(errs) > 0 {
				r.Logger.Warn("pending sync had failures", "key", key, "failed", len(errs), "total", len(ids))
			}
			return errors.Join(errs...)
		},
	}
}

// syncRelatedMovies mirrors the ordered "related movies" list of one movie.
type syncRelatedMovies struct{ r *Registry }

func (a *syncRelatedMovies) Key(traktID int64) string {
	return fmt.Sprintf("SyncRelatedMovies&traktId=%d", traktID)
}

func (a *syncRelatedMovies) Call(ctx context.Context, traktID int64) ([]remote.Movie, error) {
	return a.r.Catalog.RelatedMovies(ctx, traktID)
}

func (a *syncRelatedMovies) IgnoreError(err error) bool {
	return remote.IsGone(err)
}

func (a *syncRelatedMovies) Handle(ctx context.Context, traktID int64, related []remote.Movie) error {
	movieID, err := a.r.Store.MovieID(ctx, traktID)
	if err != nil {
		return err
	}

	rec := &reconcile.Reconciler[remote.Movie, int64]{
		Scope: store.Scope{Table: store.TableRelatedMovies, Where: "movie_id = ?", Args: []any{movieID}},
		LoadKeys: func(ctx context.Context) (map[int64]reconcile.Local, error) {
			return loadKeys(ctx, a.r.Store, scanTraktKey, `
				SELECT r.id, m.trakt_id FROM related_movies r
				JOIN movies m ON m.id = r.related_movie_id
				WHERE r.movie_id = ?`, movieID)
		},
		Key: func(m remote.Movie) int64 { return m.IDs.Trakt },
		Values: func(ctx context.Context, m remote.Movie, _ int) (store.Values, error) {
			id, err := a.r.upsertMovie(ctx, m)
			if err != nil {
				return nil, err
			}
			return store.Values{"related_movie_id": id}, nil
		},
		Fixed: store.Values{"movie_id": movieID},
		Index: "related_index",
		Stamp: []store.Op{
			store.UpdateByID(store.TableMovies, movieID, store.Values{"last_related_sync": a.r.now()}, ""),
		},
		URI: store.URIMovies.Join(traktID, "related"),
	}

	res, err := rec.Apply(ctx, a.r.Store, related)
	if err != nil {
		return err
	}
	a.r.Logger.Debug("related movies reconciled", "movie", traktID, "changes", res.Summary())
	return nil
}

// cascadePending starts the pending loops in the background when rows are
// waiting for a full sync, e.g. bare rows created by a listing.
func (r *Registry) cascadePending(ctx context.Context) error {
	movies, err := r.Store.PendingMovies(ctx, 1)
	if err != nil {
		return err
	}
	if len(movies) > 0 {
		action.InvokeAsync(ctx, r.Manager, r.SyncPendingMovies, struct{}{})
	}

	shows, err := r.Store.PendingShows(ctx, 1)
	if err != nil {
		return err
	}
	if len(shows) > 0 {
		action.InvokeAsync(ctx, r.Manager, r.SyncPendingShows, struct{}{})
	}
	return nil
}
