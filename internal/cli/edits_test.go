package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

func (e *cliEnv) seedMovie(t *testing.T, traktID int64, v store.Values) {
	t.Helper()
	e.withStore(t, func(st *store.Store) {
		_, err := st.UpsertByTraktID(context.Background(), store.TableMovies, traktID, v)
		require.NoError(t, err)
	})
}

func TestRate_UnknownMovieIsFetchedThenPushed(t *testing.T) {
	e := newCLIEnv(t)
	gomock.InOrder(
		e.cat.EXPECT().Movie(gomock.Any(), int64(1390)).Return(movieOf(1390, "heat"), nil),
		e.cat.EXPECT().RateMovie(gomock.Any(), int64(1390), 8).Return(nil),
	)

	stdout, _, err := e.exec(t, "rate", "movie", "1390", "8")
	require.NoError(t, err)
	assert.Equal(t, "rated movie 1390: 8/10\n", stdout)
	assert.Equal(t, int64(8), e.queryInt(t, "SELECT user_rating FROM movies WHERE trakt_id = 1390"))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT dirty FROM movies WHERE trakt_id = 1390"))
}

func TestRate_RejectsOutOfRange(t *testing.T) {
	for _, rating := range []string{"0", "11", "ten"} {
		t.Run(rating, func(t *testing.T) {
			e := newCLIEnv(t)
			stdout, _, err := e.exec(t, "rate", "movie", "1390", rating)

			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "rating must be 1-10")
		})
	}
}

func TestRate_PushFailureKeepsEditPending(t *testing.T) {
	e := newCLIEnv(t)
	e.seedMovie(t, 1390, store.Values{"title": "heat", "needs_sync": 0})
	e.cat.EXPECT().RateMovie(gomock.Any(), int64(1390), 9).
		Return(&remote.TransportError{Method: "POST", Path: "/sync/ratings"})

	stdout, _, err := e.exec(t, "rate", "movie", "1390", "9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E007]")
	assert.Contains(t, stdout, "saved locally")

	assert.Equal(t, int64(9), e.queryInt(t, "SELECT pending_rating FROM movies WHERE trakt_id = 1390"))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT dirty FROM movies WHERE trakt_id = 1390"))
}

func TestWatchlist_AddThenRemove(t *testing.T) {
	e := newCLIEnv(t)
	e.seedMovie(t, 1390, store.Values{"title": "heat", "needs_sync": 0})
	gomock.InOrder(
		e.cat.EXPECT().SetMovieWatchlist(gomock.Any(), int64(1390), true).Return(nil),
		e.cat.EXPECT().SetMovieWatchlist(gomock.Any(), int64(1390), false).Return(nil),
	)

	stdout, _, err := e.exec(t, "watchlist", "movie", "1390", "--add")
	require.NoError(t, err)
	assert.Equal(t, "added to watchlist movie 1390\n", stdout)
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT in_watchlist FROM movies WHERE trakt_id = 1390"))

	stdout, _, err = e.exec(t, "watchlist", "movie", "1390", "--remove")
	require.NoError(t, err)
	assert.Equal(t, "removed from watchlist movie 1390\n", stdout)
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT in_watchlist FROM movies WHERE trakt_id = 1390"))
}

func TestWatchlist_NeedsExactlyOneDirection(t *testing.T) {
	e := newCLIEnv(t)

	_, _, err := e.exec(t, "watchlist", "movie", "1390")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add")

	_, _, err = e.exec(t, "watchlist", "movie", "1390", "--add", "--remove")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove")
}

func TestCheckin_ThenCancel(t *testing.T) {
	e := newCLIEnv(t)
	watchedAt := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	gomock.InOrder(
		e.cat.EXPECT().CheckInMovie(gomock.Any(), int64(1390), "popcorn").
			Return(remote.Checkin{ID: 1, WatchedAt: watchedAt, Movie: movieOf(1390, "heat")}, nil),
		e.cat.EXPECT().CancelCheckin(gomock.Any()).Return(nil),
	)

	stdout, _, err := e.exec(t, "checkin", "movie", "1390", "-m", "popcorn")
	require.NoError(t, err)
	assert.Equal(t, "checked in movie 1390\n", stdout)
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT checked_in FROM movies WHERE trakt_id = 1390"))
	assert.Equal(t, watchedAt.Add(170*time.Minute).UnixMilli(),
		e.queryInt(t, "SELECT expires_at FROM movies WHERE trakt_id = 1390"))

	stdout, _, err = e.exec(t, "checkin", "cancel")
	require.NoError(t, err)
	assert.Equal(t, "check-in cancelled\n", stdout)
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT watching FROM movies WHERE trakt_id = 1390"))
}
