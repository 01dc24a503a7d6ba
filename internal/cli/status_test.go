package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
	"github.com/roach88/reelsync/internal/testutil"
)

// seedStatus stores one synced movie with an unpushed rating, one bare movie
// being watched and one activity mark.
func seedStatus(t *testing.T, e *cliEnv) {
	t.Helper()
	ctx := context.Background()
	e.withStore(t, func(st *store.Store) {
		_, err := st.UpsertByTraktID(ctx, store.TableMovies, 1, store.Values{"title": "heat", "needs_sync": 0})
		require.NoError(t, err)
		require.NoError(t, st.MarkMovieRating(ctx, 1, 8))

		_, err = st.UpsertByTraktID(ctx, store.TableMovies, 2, store.Values{"watching": 1, "started_at": testutil.Epoch.UnixMilli()})
		require.NoError(t, err)

		require.NoError(t, st.SetSetting(ctx, actions.SettingMovieWatched, testutil.Epoch.UnixMilli()))
	})
}

func TestStatus_Text(t *testing.T) {
	e := newCLIEnv(t)
	seedStatus(t, e)

	stdout, _, err := e.exec(t, "status")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "status", []byte(stdout))
}

func TestStatus_JSON(t *testing.T) {
	e := newCLIEnv(t)
	seedStatus(t, e)

	stdout, _, err := e.exec(t, "--format", "json", "status")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, TableCount{Table: store.TableMovies, Rows: 2}, resp.Data.Tables[0])
	assert.Equal(t, 1, resp.Data.PendingMovies)
	assert.Equal(t, 1, resp.Data.DirtyMovies)
	assert.Equal(t, int64(2), resp.Data.Watching)
	assert.Equal(t, ActivityMark{Key: actions.SettingMovieWatched, At: testutil.Epoch.UnixMilli()}, resp.Data.Activity[0])
}

func TestStatus_EmptyDatabase(t *testing.T) {
	e := newCLIEnv(t)

	stdout, _, err := e.exec(t, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "watching        nothing")
	assert.Contains(t, stdout, "movieWatchedAt      never")
}

func TestStatus_ShowsJournaledRuns(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().Movie(gomock.Any(), int64(1390)).Return(remote.Movie{}, &remote.APIError{StatusCode: 500, Message: "boom"})

	_, _, err := e.exec(t, "sync", "movie", "1390")
	require.Error(t, err)

	stdout, _, err := e.exec(t, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2024-01-01T00:00:00Z  failed  SyncMovie&traktId=1390")
}
