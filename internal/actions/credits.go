package actions

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// creditsOwner describes where a movie's or a show's credits live.
type creditsOwner struct {
	name      string
	table     string
	castTable string
	crewTable string
	column    string
	uri       store.URI
	fetch     func(c remote.Catalog, ctx context.Context, traktID int64) (remote.Credits, error)
}

var (
	movieCredits = creditsOwner{
		name:      "Movie",
		table:     store.TableMovies,
		castTable: store.TableMovieCast,
		crewTable: store.TableMovieCrew,
		column:    "movie_id",
		uri:       store.URIMovies,
		fetch:     remote.Catalog.MovieCredits,
	}
	showCredits = creditsOwner{
		name:      "Show",
		table:     store.TableShows,
		castTable: store.TableShowCast,
		crewTable: store.TableShowCrew,
		column:    "show_id",
		uri:       store.URIShows,
		fetch:     remote.Catalog.ShowCredits,
	}
)

// crewKey identifies one crew credit: a person can hold several jobs.
type crewKey struct {
	TraktID int64
	Job     string
}

type crewEntry struct {
	Department string
	Job        string
	TraktID    int64
	Name       string
	Slug       string
}

// flattenCrew orders departments by name so crew plans are deterministic.
func flattenCrew[T, E any](crew map[string][]T, entry func(department string, c T) E) []E {
	departments := make([]string, 0, len(crew))
	for d := range crew {
		departments = append(departments, d)
	}
	sort.Strings(departments)

	var out []E
	for _, d := range departments {
		for _, c := range crew[d] {
			out = append(out, entry(d, c))
		}
	}
	return out
}

func scanCrewKey(rows *sql.Rows) (int64, crewKey, error) {
	var (
		id int64
		k  crewKey
	)
	err := rows.Scan(&id, &k.TraktID, &k.Job)
	return id, k, err
}

// syncCredits mirrors the cast and crew of a movie or show. Cast order is
// kept in cast_index. Both scopes commit in one batch with the
// last_credits_sync stamp.
type syncCredits struct {
	r     *Registry
	owner creditsOwner
}

func (a *syncCredits) Key(traktID int64) string {
	return fmt.Sprintf("Sync%sCredits&traktId=%d", a.owner.name, traktID)
}

func (a *syncCredits) Call(ctx context.Context, traktID int64) (remote.Credits, error) {
	return a.owner.fetch(a.r.Catalog, ctx, traktID)
}

func (a *syncCredits) IgnoreError(err error) bool {
	return remote.IsGone(err)
}

func (a *syncCredits) Handle(ctx context.Context, traktID int64, credits remote.Credits) error {
	ownerID, ok, err := a.r.Store.LookupID(ctx, a.owner.table, "trakt_id", traktID)
	if err != nil {
		return err
	}
	if !ok {
		return &store.MissingRowError{Table: a.owner.table, Key: traktID}
	}
	uri := a.owner.uri.Join(traktID, "credits")
	o := a.owner

	cast := &reconcile.Reconciler[remote.CastMember, int64]{
		Scope: store.Scope{Table: o.castTable, Where: o.column + " = ?", Args: []any{ownerID}},
		LoadKeys: func(ctx context.Context) (map[int64]reconcile.Local, error) {
			return loadKeys(ctx, a.r.Store, scanTraktKey, fmt.Sprintf(`
				SELECT c.id, p.trakt_id FROM %s c
				JOIN people p ON p.id = c.person_id
				WHERE c.%s = ?`, o.castTable, o.column), ownerID)
		},
		Key: func(c remote.CastMember) int64 { return c.Person.IDs.Trakt },
		Values: func(ctx context.Context, c remote.CastMember, _ int) (store.Values, error) {
			personID, err := a.r.upsertPerson(ctx, c.Person)
			if err != nil {
				return nil, err
			}
			return store.Values{"person_id": personID, "character": c.Character}, nil
		},
		Fixed: store.Values{o.column: ownerID},
		Index: "cast_index",
		URI:   uri,
	}

	crew := &reconcile.Reconciler[crewEntry, crewKey]{
		Scope: store.Scope{Table: o.crewTable, Where: o.column + " = ?", Args: []any{ownerID}},
		LoadKeys: func(ctx context.Context) (map[crewKey]reconcile.Local, error) {
			return loadKeys(ctx, a.r.Store, scanCrewKey, fmt.Sprintf(`
				SELECT c.id, p.trakt_id, c.job FROM %s c
				JOIN people p ON p.id = c.person_id
				WHERE c.%s = ?`, o.crewTable, o.column), ownerID)
		},
		Key: func(e crewEntry) crewKey { return crewKey{TraktID: e.TraktID, Job: e.Job} },
		Values: func(ctx context.Context, e crewEntry, _ int) (store.Values, error) {
			personID, err := a.r.Store.UpsertByTraktID(ctx, store.TablePeople, e.TraktID,
				store.Values{"name": e.Name, "slug": e.Slug})
			if err != nil {
				return nil, err
			}
			return store.Values{"person_id": personID, "department": e.Department, "job": e.Job}, nil
		},
		Fixed: store.Values{o.column: ownerID},
		Stamp: []store.Op{
			store.UpdateByID(o.table, ownerID, store.Values{"last_credits_sync": a.r.now()}, ""),
		},
		URI: uri,
	}

	castRes, err := cast.Plan(ctx, a.r.Store, credits.Cast)
	if err != nil {
		return err
	}
	crewRes, err := crew.Plan(ctx, a.r.Store, flattenCrew(credits.Crew, func(d string, c remote.CrewMember) crewEntry {
		return crewEntry{Department: d, Job: c.Job, TraktID: c.Person.IDs.Trakt, Name: c.Person.Name, Slug: c.Person.IDs.Slug}
	}))
	if err != nil {
		return err
	}
	return reconcile.ApplyAll(ctx, a.r.Store, castRes, crewRes)
}

// syncPersonMovieCredits mirrors a person's filmography into the movie
// cast and crew tables, scoped by person.
type syncPersonMovieCredits struct{ r *Registry }

func (a *syncPersonMovieCredits) Key(traktID int64) string {
	return fmt.Sprintf("SyncPersonMovieCredits&traktId=%d", traktID)
}

func (a *syncPersonMovieCredits) Call(ctx context.Context, traktID int64) (remote.PersonMovieCredits, error) {
	return a.r.Catalog.PersonMovieCredits(ctx, traktID)
}

func (a *syncPersonMovieCredits) IgnoreError(err error) bool {
	return remote.IsGone(err)
}

type filmCrewEntry struct {
	crewEntry
	Movie remote.Movie
}

func (a *syncPersonMovieCredits) Handle(ctx context.Context, traktID int64, credits remote.PersonMovieCredits) error {
	personID, err := a.r.Store.PersonID(ctx, traktID)
	if err != nil {
		return err
	}
	uri := store.URIPeople.Join(traktID, "credits")

	cast := &reconcile.Reconciler[remote.MovieCastCredit, int64]{
		Scope: store.Scope{Table: store.TableMovieCast, Where: "person_id = ?", Args: []any{personID}},
		LoadKeys: func(ctx context.Context) (map[int64]reconcile.Local, error) {
			return loadKeys(ctx, a.r.Store, scanTraktKey, `
				SELECT c.id, m.trakt_id FROM movie_cast c
				JOIN movies m ON m.id = c.movie_id
				WHERE c.person_id = ?`, personID)
		},
		Key: func(c remote.MovieCastCredit) int64 { return c.Movie.IDs.Trakt },
		Values: func(ctx context.Context, c remote.MovieCastCredit, _ int) (store.Values, error) {
			movieID, err := a.r.upsertMovie(ctx, c.Movie)
			if err != nil {
				return nil, err
			}
			return store.Values{"movie_id": movieID, "character": c.Character}, nil
		},
		Fixed: store.Values{"person_id": personID},
		URI:   uri,
	}

	crew := &reconcile.Reconciler[filmCrewEntry, crewKey]{
		Scope: store.Scope{Table: store.TableMovieCrew, Where: "person_id = ?", Args: []any{personID}},
		LoadKeys: func(ctx context.Context) (map[crewKey]reconcile.Local, error) {
			return loadKeys(ctx, a.r.Store, scanCrewKey, `
				SELECT c.id, m.trakt_id, c.job FROM movie_crew c
				JOIN movies m ON m.id = c.movie_id
				WHERE c.person_id = ?`, personID)
		},
		Key: func(e filmCrewEntry) crewKey { return crewKey{TraktID: e.TraktID, Job: e.Job} },
		Values: func(ctx context.Context, e filmCrewEntry, _ int) (store.Values, error) {
			movieID, err := a.r.upsertMovie(ctx, e.Movie)
			if err != nil {
				return nil, err
			}
			return store.Values{"movie_id": movieID, "department": e.Department, "job": e.Job}, nil
		},
		Fixed: store.Values{"person_id": personID},
		Stamp: []store.Op{
			store.UpdateByID(store.TablePeople, personID, store.Values{"last_credits_sync": a.r.now()}, ""),
		},
		URI: uri,
	}

	castRes, err := cast.Plan(ctx, a.r.Store, credits.Cast)
	if err != nil {
		return err
	}

	films := flattenCrew(credits.Crew, func(d string, c remote.MovieCrewCredit) filmCrewEntry {
		return filmCrewEntry{
			crewEntry: crewEntry{Department: d, Job: c.Job, TraktID: c.Movie.IDs.Trakt},
			Movie:     c.Movie,
		}
	})
	crewRes, err := crew.Plan(ctx, a.r.Store, films)
	if err != nil {
		return err
	}
	return reconcile.ApplyAll(ctx, a.r.Store, castRes, crewRes)
}
