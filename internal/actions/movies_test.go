package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

func TestSyncMovie_ClearsNeedsSync(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 10, store.Values{"title": "bare"})

	m := movieOf(10, "heat")
	m.Runtime = 170
	e.cat.EXPECT().Movie(gomock.Any(), int64(10)).Return(m, nil)

	require.NoError(t, run(t, e, e.reg.SyncMovie, 10))

	assert.Equal(t, int64(0), e.queryInt(t, "SELECT needs_sync FROM movies WHERE trakt_id = 10"))
	assert.Equal(t, now, e.queryInt(t, "SELECT last_sync FROM movies WHERE trakt_id = 10"))
	assert.Equal(t, int64(170), e.queryInt(t, "SELECT runtime FROM movies WHERE trakt_id = 10"))
}

func TestSyncPendingMovies_ContinuesPastFailures(t *testing.T) {
	e := newEnv(t)
	for _, id := range []int64{1, 2, 3} {
		e.movie(t, id, store.Values{"title": "bare"})
	}

	e.cat.EXPECT().Movie(gomock.Any(), int64(1)).Return(movieOf(1, "one"), nil)
	e.cat.EXPECT().Movie(gomock.Any(), int64(2)).Return(remote.Movie{}, errServer)
	e.cat.EXPECT().Movie(gomock.Any(), int64(3)).Return(movieOf(3, "three"), nil)

	err := run(t, e, e.reg.SyncPendingMovies, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SyncMovie&traktId=2")

	pending, err := e.st.PendingMovies(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1, "only the failed movie stays pending")
}

func TestSyncPendingMovies_StopFlagSkipsRemainingItems(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"title": "bare"})
	e.mgr.Stop()

	// No Movie call is expected: the loop checks the flag before each item.
	require.NoError(t, run(t, e, e.reg.SyncPendingMovies, struct{}{}))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT needs_sync FROM movies WHERE trakt_id = 1"))
}

func TestSyncRelatedMovies_OrderAndGone(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"title": "heat"})

	gomock.InOrder(
		e.cat.EXPECT().RelatedMovies(gomock.Any(), int64(1)).
			Return([]remote.Movie{movieOf(21, "ronin"), movieOf(20, "thief")}, nil),
		e.cat.EXPECT().RelatedMovies(gomock.Any(), int64(1)).
			Return(nil, errNotFound),
	)

	require.NoError(t, run(t, e, e.reg.SyncRelatedMovies, 1))
	assert.Equal(t, int64(0), e.queryInt(t, `
		SELECT r.related_index FROM related_movies r JOIN movies m ON m.id = r.related_movie_id
		WHERE m.trakt_id = 21`))
	assert.Equal(t, int64(1), e.queryInt(t, `
		SELECT r.related_index FROM related_movies r JOIN movies m ON m.id = r.related_movie_id
		WHERE m.trakt_id = 20`))
	assert.Equal(t, now, e.queryInt(t, "SELECT last_related_sync FROM movies WHERE trakt_id = 1"))

	// A 404 counts as success and leaves the mirror alone.
	require.NoError(t, run(t, e, e.reg.SyncRelatedMovies, 1))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM related_movies"))
}

func TestSyncRelatedMovies_UnknownMovieFails(t *testing.T) {
	e := newEnv(t)
	e.cat.EXPECT().RelatedMovies(gomock.Any(), int64(99)).Return([]remote.Movie{movieOf(1, "x")}, nil)

	err := run(t, e, e.reg.SyncRelatedMovies, 99)
	require.Error(t, err)
	assert.True(t, store.IsMissingRow(err))
}
