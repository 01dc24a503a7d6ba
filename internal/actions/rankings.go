package actions

import (
	"context"

	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// Setting keys for hidden recommendations.
const (
	SettingMovieHidden = "movieHiddenAt"
	SettingShowHidden  = "showHiddenAt"
)

// ranking reconciles a rank column on a shared catalog table. Rows that
// drop out of the ranking keep their catalog data; only the rank resets.
func ranking[T any](table, column string, uri store.URI, key func(T) int64, values func(T) store.Values) *reconcile.Reconciler[T, int64] {
	return &reconcile.Reconciler[T, int64]{
		Scope:     store.Scope{Table: table, Where: column + " >= 0"},
		KeyColumn: "trakt_id",
		Key:       key,
		Values: func(_ context.Context, item T, _ int) (store.Values, error) {
			return values(item), nil
		},
		UpsertOn: "trakt_id",
		Index:    column,
		Absent:   store.Values{column: -1},
		URI:      uri,
	}
}

type syncTrendingMovies struct{ r *Registry }

func (a *syncTrendingMovies) Key(struct{}) string { return "SyncTrendingMovies" }

func (a *syncTrendingMovies) Call(ctx context.Context, _ struct{}, page int) (remote.Page[remote.TrendingMovie], error) {
	return a.r.Catalog.TrendingMovies(ctx, page, a.r.PageLimit)
}

func (a *syncTrendingMovies) HandleAll(ctx context.Context, _ struct{}, items []remote.TrendingMovie) error {
	rec := ranking(store.TableMovies, "trending_index", store.URITrending.Join("movies"),
		func(t remote.TrendingMovie) int64 { return t.Movie.IDs.Trakt },
		func(t remote.TrendingMovie) store.Values { return movieSummary(t.Movie) },
	)
	_, err := rec.Apply(ctx, a.r.Store, items)
	return err
}

type syncTrendingShows struct{ r *Registry }

func (a *syncTrendingShows) Key(struct{}) string { return "SyncTrendingShows" }

func (a *syncTrendingShows) Call(ctx context.Context, _ struct{}, page int) (remote.Page[remote.TrendingShow], error) {
	return a.r.Catalog.TrendingShows(ctx, page, a.r.PageLimit)
}

func (a *syncTrendingShows) HandleAll(ctx context.Context, _ struct{}, items []remote.TrendingShow) error {
	rec := ranking(store.TableShows, "trending_index", store.URITrending.Join("shows"),
		func(t remote.TrendingShow) int64 { return t.Show.IDs.Trakt },
		func(t remote.TrendingShow) store.Values { return showSummary(t.Show) },
	)
	_, err := rec.Apply(ctx, a.r.Store, items)
	return err
}

type syncAnticipatedMovies struct{ r *Registry }

func (a *syncAnticipatedMovies) Key(struct{}) string { return "SyncAnticipatedMovies" }

func (a *syncAnticipatedMovies) Call(ctx context.Context, _ struct{}, page int) (remote.Page[remote.AnticipatedMovie], error) {
	return a.r.Catalog.AnticipatedMovies(ctx, page, a.r.PageLimit)
}

func (a *syncAnticipatedMovies) HandleAll(ctx context.Context, _ struct{}, items []remote.AnticipatedMovie) error {
	rec := ranking(store.TableMovies, "anticipated_index", store.URIMovies.Join("anticipated"),
		func(t remote.AnticipatedMovie) int64 { return t.Movie.IDs.Trakt },
		func(t remote.AnticipatedMovie) store.Values { return movieSummary(t.Movie) },
	)
	_, err := rec.Apply(ctx, a.r.Store, items)
	return err
}

// syncHiddenRecommendations mirrors the movies and shows the user hid from
// recommendations. Both kinds commit in one batch.
type syncHiddenRecommendations struct{ r *Registry }

func (a *syncHiddenRecommendations) Key(int64) string { return "SyncHiddenRecommendations" }

func (a *syncHiddenRecommendations) Call(ctx context.Context, _ int64, page int) (remote.Page[remote.HiddenItem], error) {
	return a.r.Catalog.HiddenRecommendations(ctx, page, a.r.PageLimit)
}

func hidden[T any](table string, key func(T) int64, values func(T) store.Values) *reconcile.Reconciler[T, int64] {
	return &reconcile.Reconciler[T, int64]{
		Scope:     store.Scope{Table: table, Where: "hidden_recommendations = 1"},
		KeyColumn: "trakt_id",
		Key:       key,
		Values: func(_ context.Context, item T, _ int) (store.Values, error) {
			return values(item), nil
		},
		Fixed:    store.Values{"hidden_recommendations": 1},
		UpsertOn: "trakt_id",
		Absent:   store.Values{"hidden_recommendations": 0},
		URI:      store.URIUser.Join("hidden"),
	}
}

func (a *syncHiddenRecommendations) HandleAll(ctx context.Context, since int64, items []remote.HiddenItem) error {
	var movies []remote.Movie
	var shows []remote.Show
	for _, it := range items {
		switch it.Type {
		case remote.KindMovie:
			if it.Movie != nil {
				movies = append(movies, *it.Movie)
			}
		case remote.KindShow:
			if it.Show != nil {
				shows = append(shows, *it.Show)
			}
		case remote.KindSeason, remote.KindEpisode, remote.KindPerson, remote.KindList, remote.KindComment:
			// Not hideable from recommendations.
		}
	}

	movieRec := hidden(store.TableMovies, func(m remote.Movie) int64 { return m.IDs.Trakt }, movieSummary)
	movieRec.Stamp = activityStamp(SettingMovieHidden, since)
	showRec := hidden(store.TableShows, func(s remote.Show) int64 { return s.IDs.Trakt }, showSummary)
	showRec.Stamp = activityStamp(SettingShowHidden, since)

	movieRes, err := movieRec.Plan(ctx, a.r.Store, movies)
	if err != nil {
		return err
	}
	showRes, err := showRec.Plan(ctx, a.r.Store, shows)
	if err != nil {
		return err
	}
	return reconcile.ApplyAll(ctx, a.r.Store, movieRes, showRes)
}
