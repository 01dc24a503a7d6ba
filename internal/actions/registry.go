// Package actions holds the concrete sync and push actions.
//
// Every action is a keyed action.Action built from a single-shot or paged
// call. Handlers reconcile responses into the store with reconcile.Reconciler
// and commit each scope as one batch. Actions that fan out to other actions
// (activity cascade, pending loops, list items) do so through the Manager,
// so concurrent triggers of the same dependent work still collapse into one
// execution.
package actions

import (
	"log/slog"
	"time"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// DefaultPageLimit is the page size requested from paginated endpoints.
const DefaultPageLimit = 100

// DefaultMaxPages caps every paged action the registry builds, for servers
// that keep returning full pages without a page-count header.
const DefaultMaxPages = 100

// Clock supplies wall time for sync stamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Deps are the collaborators every action needs.
type Deps struct {
	Store   *store.Store
	Catalog remote.Catalog
	Manager *action.Manager
	Clock   Clock
	Logger  *slog.Logger

	// Username is the account whose check-in state SyncWatching mirrors.
	Username string

	// PageLimit is the page size for paginated calls. Default: DefaultPageLimit.
	PageLimit int

	// MaxPages caps pages per paged execution. Default: DefaultMaxPages.
	// A negative value leaves pagination uncapped.
	MaxPages int
}

// Registry is the set of actions wired to one store, catalog and manager.
type Registry struct {
	Deps

	SyncMovie              action.Action[int64]
	SyncPendingMovies      action.Action[struct{}]
	SyncRelatedMovies      action.Action[int64]
	SyncMovieCredits       action.Action[int64]
	SyncShow               action.Action[int64]
	SyncSeasons            action.Action[int64]
	SyncPendingShows       action.Action[struct{}]
	SyncShowCredits        action.Action[int64]
	SyncPersonMovieCredits action.Action[int64]

	SyncList      action.Action[int64]
	SyncListItems action.Action[int64]

	SyncMovieComments   action.Action[int64]
	SyncShowComments    action.Action[int64]
	SyncEpisodeComments action.Action[EpisodeRef]
	SyncCommentReplies  action.Action[int64]
	SyncCommentLikes    action.Action[int64]

	SyncTrendingMovies        action.Action[struct{}]
	SyncTrendingShows         action.Action[struct{}]
	SyncAnticipatedMovies     action.Action[struct{}]
	SyncHiddenRecommendations action.Action[int64]

	SyncUserActivity    action.Action[struct{}]
	SyncMoviesWatchlist action.Action[int64]
	SyncWatchedMovies   action.Action[int64]
	SyncWatchedShows    action.Action[int64]
	SyncWatching        action.Action[struct{}]

	RateMovie         action.Action[Rating]
	SetMovieWatchlist action.Action[WatchlistEdit]
	CheckInMovie      action.Action[CheckIn]
	CancelCheckin     action.Action[struct{}]
	PushPendingMovies action.Action[struct{}]
}

// NewRegistry builds every action over d, filling defaults.
func NewRegistry(d Deps) *Registry {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.PageLimit <= 0 {
		d.PageLimit = DefaultPageLimit
	}
	if d.MaxPages == 0 {
		d.MaxPages = DefaultMaxPages
	}

	r := &Registry{Deps: d}
	paging := action.WithMaxPages(d.MaxPages)

	r.SyncMovie = action.Single[int64, remote.Movie](&syncMovie{r})
	r.SyncPendingMovies = pendingLoop(r, "SyncPendingMovies", r.Store.PendingMovies, r.SyncMovie)
	r.SyncRelatedMovies = action.Single[int64, []remote.Movie](&syncRelatedMovies{r})
	r.SyncMovieCredits = action.Single[int64, remote.Credits](&syncCredits{r: r, owner: movieCredits})
	r.SyncShow = action.Single[int64, remote.Show](&syncShow{r})
	r.SyncSeasons = action.Single[int64, []remote.Season](&syncSeasons{r})
	r.SyncPendingShows = pendingLoop(r, "SyncPendingShows", r.Store.PendingShows, r.SyncShow)
	r.SyncShowCredits = action.Single[int64, remote.Credits](&syncCredits{r: r, owner: showCredits})
	r.SyncPersonMovieCredits = action.Single[int64, remote.PersonMovieCredits](&syncPersonMovieCredits{r})

	r.SyncList = action.Single[int64, remote.List](&syncList{r})
	r.SyncListItems = action.Single[int64, []remote.ListEntry](&syncListItems{r})

	r.SyncMovieComments = action.PagedBatch[int64, remote.Comment](&syncItemComments{r: r, kind: remote.KindMovie}, paging)
	r.SyncShowComments = action.PagedBatch[int64, remote.Comment](&syncItemComments{r: r, kind: remote.KindShow}, paging)
	r.SyncEpisodeComments = action.PagedBatch[EpisodeRef, remote.Comment](&syncEpisodeComments{r}, paging)
	r.SyncCommentReplies = newSyncCommentReplies(r).action(paging)
	r.SyncCommentLikes = action.PagedBatch[int64, remote.LikedItem](&syncCommentLikes{r}, paging)

	r.SyncTrendingMovies = action.PagedBatch[struct{}, remote.TrendingMovie](&syncTrendingMovies{r}, paging)
	r.SyncTrendingShows = action.PagedBatch[struct{}, remote.TrendingShow](&syncTrendingShows{r}, paging)
	r.SyncAnticipatedMovies = action.PagedBatch[struct{}, remote.AnticipatedMovie](&syncAnticipatedMovies{r}, paging)
	r.SyncHiddenRecommendations = action.PagedBatch[int64, remote.HiddenItem](&syncHiddenRecommendations{r}, paging)

	r.SyncUserActivity = action.Single[struct{}, remote.LastActivities](&syncUserActivity{r})
	r.SyncMoviesWatchlist = action.Single[int64, []remote.WatchlistMovie](&syncMoviesWatchlist{r})
	r.SyncWatchedMovies = action.Single[int64, []remote.WatchedMovie](&syncWatchedMovies{r})
	r.SyncWatchedShows = action.Single[int64, []remote.WatchedShow](&syncWatchedShows{r})
	r.SyncWatching = action.Single[struct{}, *remote.Watching](&syncWatching{r})

	r.RateMovie = action.Single[Rating, struct{}](&rateMovie{r})
	r.SetMovieWatchlist = action.Single[WatchlistEdit, struct{}](&setMovieWatchlist{r})
	r.CheckInMovie = action.Single[CheckIn, remote.Checkin](&checkInMovie{r})
	r.CancelCheckin = action.Single[struct{}, struct{}](&cancelCheckin{r})
	r.PushPendingMovies = pushPendingMovies(r)

	return r
}

// now returns the current time in unix milliseconds.
func (r *Registry) now() int64 {
	return r.Clock.Now().UnixMilli()
}

// millis converts a remote timestamp; the zero time maps to 0.
func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
