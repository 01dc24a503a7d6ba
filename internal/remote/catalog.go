// Package remote is the typed gateway to the media catalog service.
//
// Every method issues exactly one HTTP request. Failures are either a
// *TransportError (the request did not complete) or an *APIError (the
// server answered with a non-success status). Nothing here retries; the
// next scheduled sync is the retry policy.
package remote

import "context"

//go:generate mockgen -destination=mocks/catalog.go -package=mocks github.com/roach88/reelsync/internal/remote Catalog

// Catalog is the subset of the catalog API the sync engine uses.
type Catalog interface {
	Movie(ctx context.Context, traktID int64) (Movie, error)
	Show(ctx context.Context, traktID int64) (Show, error)
	Seasons(ctx context.Context, showTraktID int64) ([]Season, error)
	MovieCredits(ctx context.Context, traktID int64) (Credits, error)
	ShowCredits(ctx context.Context, traktID int64) (Credits, error)
	PersonMovieCredits(ctx context.Context, personTraktID int64) (PersonMovieCredits, error)
	RelatedMovies(ctx context.Context, traktID int64) ([]Movie, error)

	List(ctx context.Context, traktID int64) (List, error)
	ListItems(ctx context.Context, traktID int64) ([]ListEntry, error)

	MovieComments(ctx context.Context, traktID int64, page, limit int) (Page[Comment], error)
	ShowComments(ctx context.Context, traktID int64, page, limit int) (Page[Comment], error)
	EpisodeComments(ctx context.Context, showTraktID int64, season, episode, page, limit int) (Page[Comment], error)
	CommentReplies(ctx context.Context, commentID int64, page, limit int) (Page[Comment], error)
	LikedComments(ctx context.Context, page, limit int) (Page[LikedItem], error)

	TrendingMovies(ctx context.Context, page, limit int) (Page[TrendingMovie], error)
	TrendingShows(ctx context.Context, page, limit int) (Page[TrendingShow], error)
	AnticipatedMovies(ctx context.Context, page, limit int) (Page[AnticipatedMovie], error)
	HiddenRecommendations(ctx context.Context, page, limit int) (Page[HiddenItem], error)

	LastActivities(ctx context.Context) (LastActivities, error)
	MoviesWatchlist(ctx context.Context) ([]WatchlistMovie, error)
	WatchedMovies(ctx context.Context) ([]WatchedMovie, error)
	WatchedShows(ctx context.Context) ([]WatchedShow, error)
	// Watching returns nil when the user is not checked in.
	Watching(ctx context.Context, username string) (*Watching, error)

	RateMovie(ctx context.Context, traktID int64, rating int) error
	SetMovieWatchlist(ctx context.Context, traktID int64, inWatchlist bool) error
	CheckInMovie(ctx context.Context, traktID int64, message string) (Checkin, error)
	CancelCheckin(ctx context.Context) error
}
