package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// Rating is a user rating for a movie, 1 to 10.
type Rating struct {
	TraktID int64
	Rating  int
}

// WatchlistEdit adds a movie to or removes it from the watchlist.
type WatchlistEdit struct {
	TraktID     int64
	InWatchlist bool
}

// CheckIn starts watching a movie.
type CheckIn struct {
	TraktID int64
	Message string
}

// rateMovie pushes a rating. Callers mark the rating pending first with
// Store.MarkMovieRating so it survives a failed push.
type rateMovie struct{ r *Registry }

func (a *rateMovie) Key(p Rating) string {
	return fmt.Sprintf("RateMovie&traktId=%d&rating=%d", p.TraktID, p.Rating)
}

func (a *rateMovie) Call(ctx context.Context, p Rating) (struct{}, error) {
	return struct{}{}, a.r.Catalog.RateMovie(ctx, p.TraktID, p.Rating)
}

func (a *rateMovie) Handle(ctx context.Context, p Rating, _ struct{}) error {
	_, err := a.r.Store.Apply(ctx, store.MoviePushedOps(p.TraktID, "pending_rating", p.Rating, store.Values{
		"user_rating": p.Rating,
	}))
	return err
}

type setMovieWatchlist struct{ r *Registry }

func (a *setMovieWatchlist) Key(p WatchlistEdit) string {
	return fmt.Sprintf("SetMovieWatchlist&traktId=%d&add=%t", p.TraktID, p.InWatchlist)
}

func (a *setMovieWatchlist) Call(ctx context.Context, p WatchlistEdit) (struct{}, error) {
	return struct{}{}, a.r.Catalog.SetMovieWatchlist(ctx, p.TraktID, p.InWatchlist)
}

func (a *setMovieWatchlist) Handle(ctx context.Context, p WatchlistEdit, _ struct{}) error {
	listedAt := int64(0)
	if p.InWatchlist {
		listedAt = a.r.now()
	}
	_, err := a.r.Store.Apply(ctx, store.MoviePushedOps(p.TraktID, "pending_watchlist", boolInt(p.InWatchlist), store.Values{
		"in_watchlist":   boolInt(p.InWatchlist),
		"watchlisted_at": listedAt,
	}))
	return err
}

// checkInMovie checks in to a movie. Any earlier local check-in is cleared
// in the same batch.
type checkInMovie struct{ r *Registry }

func (a *checkInMovie) Key(p CheckIn) string {
	return fmt.Sprintf("CheckInMovie&traktId=%d", p.TraktID)
}

func (a *checkInMovie) Call(ctx context.Context, p CheckIn) (remote.Checkin, error) {
	return a.r.Catalog.CheckInMovie(ctx, p.TraktID, p.Message)
}

func (a *checkInMovie) Handle(ctx context.Context, p CheckIn, c remote.Checkin) error {
	started := millis(c.WatchedAt)
	if started == 0 {
		started = a.r.now()
	}
	v := store.Values{
		"watching":   1,
		"checked_in": 1,
		"started_at": started,
	}
	if c.Movie.Runtime > 0 {
		v["expires_at"] = started + int64(c.Movie.Runtime)*60_000
	}
	if c.Movie.IDs.Trakt != 0 {
		v = movieSummary(c.Movie).Merge(v)
	}
	_, err := a.r.Store.Apply(ctx, []store.Op{
		store.ClearWatchingOp(),
		store.Upsert(store.TableMovies, "trakt_id", v.Merge(store.Values{"trakt_id": p.TraktID}), store.URIMovies.Join(p.TraktID)),
	})
	return err
}

type cancelCheckin struct{ r *Registry }

func (a *cancelCheckin) Key(struct{}) string { return "CancelCheckin" }

func (a *cancelCheckin) Call(ctx context.Context, _ struct{}) (struct{}, error) {
	return struct{}{}, a.r.Catalog.CancelCheckin(ctx)
}

func (a *cancelCheckin) Handle(ctx context.Context, _ struct{}, _ struct{}) error {
	_, err := a.r.Store.Apply(ctx, []store.Op{store.ClearWatchingOp()})
	return err
}

// pushPendingMovies retries every unsynced local edit. Each edit is its own
// action so a concurrent explicit push of the same edit collapses with it.
func pushPendingMovies(r *Registry) action.Action[struct{}] {
	return action.Func[struct{}]{
		KeyFunc: func(struct{}) string { return "PushPendingMovies" },
		InvokeFunc: func(ctx context.Context, _ struct{}) error {
			dirty, err := r.Store.DirtyMovies(ctx)
			if err != nil {
				return err
			}

			var errs []error
			for _, m := range dirty {
				if r.Manager.Stopped() {
					break
				}
				if m.Rating.Valid {
					rating := Rating{TraktID: m.TraktID, Rating: int(m.Rating.Int64)}
					if err := action.InvokeSync(ctx, r.Manager, r.RateMovie, rating); err != nil {
						errs = append(errs, err)
					}
				}
				if m.Watchlist.Valid {
					edit := WatchlistEdit{TraktID: m.TraktID, InWatchlist: m.Watchlist.Int64 != 0}
					if err := action.InvokeSync(ctx, r.Manager, r.SetMovieWatchlist, edit); err != nil {
						errs = append(errs, err)
					}
				}
			}
			return errors.Join(errs...)
		},
	}
}
