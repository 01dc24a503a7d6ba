package store

import (
	"context"
	"testing"
)

func TestEpisodeByNumber(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	showID, err := s.UpsertByTraktID(ctx, TableShows, 77, Values{"title": "Show"})
	if err != nil {
		t.Fatalf("upsert show: %v", err)
	}
	seasonID, err := s.SeasonIDOrCreate(ctx, showID, 770, 1)
	if err != nil {
		t.Fatalf("season: %v", err)
	}
	epID, err := s.EpisodeIDOrCreate(ctx, showID, seasonID, 7701, 1, 3)
	if err != nil {
		t.Fatalf("episode: %v", err)
	}

	got, err := s.EpisodeByNumber(ctx, 77, 1, 3)
	if err != nil {
		t.Fatalf("EpisodeByNumber: %v", err)
	}
	if got != epID {
		t.Errorf("EpisodeByNumber = %d, want %d", got, epID)
	}

	if _, err := s.EpisodeByNumber(ctx, 77, 1, 4); !IsMissingRow(err) {
		t.Errorf("missing episode: got %v, want MissingRowError", err)
	}
}

func TestMoviePushedOps_ClearsDirtyOnlyWhenNothingPending(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	insertMovie(t, s, 1, "Heat")

	if err := s.MarkMovieRating(ctx, 1, 9); err != nil {
		t.Fatalf("mark rating: %v", err)
	}
	if err := s.MarkMovieWatchlist(ctx, 1, true); err != nil {
		t.Fatalf("mark watchlist: %v", err)
	}

	if _, err := s.Apply(ctx, MoviePushedOps(1, "pending_rating", 9, Values{"user_rating": 9})); err != nil {
		t.Fatalf("apply rating push: %v", err)
	}
	p, err := s.MoviePendingState(ctx, 1)
	if err != nil {
		t.Fatalf("pending state: %v", err)
	}
	if p.Rating.Valid {
		t.Errorf("pending_rating still set")
	}
	if !p.Dirty {
		t.Errorf("row must stay dirty while the watchlist edit is pending")
	}

	if _, err := s.Apply(ctx, MoviePushedOps(1, "pending_watchlist", 1, Values{"in_watchlist": 1})); err != nil {
		t.Fatalf("apply watchlist push: %v", err)
	}
	p, err = s.MoviePendingState(ctx, 1)
	if err != nil {
		t.Fatalf("pending state: %v", err)
	}
	if p.Dirty {
		t.Errorf("dirty not cleared after last pending push")
	}
	if got := queryInt(t, s, "SELECT user_rating FROM movies WHERE trakt_id = 1"); got != 9 {
		t.Errorf("user_rating = %d, want 9", got)
	}
}

func TestMoviePushedOps_NewerEditStaysPending(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	insertMovie(t, s, 1, "Heat")

	// 7 was pushed, but the user changed the rating to 8 meanwhile.
	if err := s.MarkMovieRating(ctx, 1, 8); err != nil {
		t.Fatalf("mark rating: %v", err)
	}
	if _, err := s.Apply(ctx, MoviePushedOps(1, "pending_rating", 7, Values{"user_rating": 7})); err != nil {
		t.Fatalf("apply stale push: %v", err)
	}

	p, err := s.MoviePendingState(ctx, 1)
	if err != nil {
		t.Fatalf("pending state: %v", err)
	}
	if !p.Rating.Valid || p.Rating.Int64 != 8 {
		t.Errorf("pending_rating = %v, want 8", p.Rating)
	}
	if !p.Dirty {
		t.Errorf("row must stay dirty while the newer rating is unpushed")
	}
	if got := queryInt(t, s, "SELECT user_rating FROM movies WHERE trakt_id = 1"); got == 7 {
		t.Errorf("stale push overwrote user_rating")
	}
}

func TestDirtyMovies(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	insertMovie(t, s, 1, "A")
	insertMovie(t, s, 2, "B")

	if err := s.MarkMovieWatchlist(ctx, 2, false); err != nil {
		t.Fatalf("mark: %v", err)
	}

	dirty, err := s.DirtyMovies(ctx)
	if err != nil {
		t.Fatalf("DirtyMovies: %v", err)
	}
	if len(dirty) != 1 || dirty[0].TraktID != 2 {
		t.Fatalf("DirtyMovies = %+v, want movie 2 only", dirty)
	}
	if !dirty[0].Watchlist.Valid || dirty[0].Watchlist.Int64 != 0 {
		t.Errorf("pending watchlist = %+v, want 0", dirty[0].Watchlist)
	}
	if dirty[0].Rating.Valid {
		t.Errorf("pending rating should be NULL")
	}
}

func TestWatchingMovie(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	insertMovie(t, s, 1, "A")

	if _, ok, err := s.WatchingMovie(ctx); err != nil || ok {
		t.Fatalf("WatchingMovie on empty = ok %v err %v", ok, err)
	}

	if _, err := s.UpsertByTraktID(ctx, TableMovies, 1, Values{"watching": 1, "started_at": 10}); err != nil {
		t.Fatalf("set watching: %v", err)
	}
	id, ok, err := s.WatchingMovie(ctx)
	if err != nil || !ok || id != 1 {
		t.Fatalf("WatchingMovie = %d %v %v, want 1", id, ok, err)
	}

	if _, err := s.Apply(ctx, []Op{ClearWatchingOp()}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.WatchingMovie(ctx); ok {
		t.Errorf("still watching after clear")
	}
}
