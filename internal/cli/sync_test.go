package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
)

func TestSync_Movie(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().Movie(gomock.Any(), int64(1390)).Return(movieOf(1390, "heat"), nil)

	stdout, _, err := e.exec(t, "sync", "movie", "1390")
	require.NoError(t, err)
	assert.Equal(t, "synced movie 1390\n", stdout)
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT needs_sync FROM movies WHERE trakt_id = 1390"))
	assert.Equal(t, int64(170), e.queryInt(t, "SELECT runtime FROM movies WHERE trakt_id = 1390"))
}

func TestSync_SeveralIDsRunConcurrently(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().Movie(gomock.Any(), int64(1)).Return(movieOf(1, "heat"), nil)
	e.cat.EXPECT().Movie(gomock.Any(), int64(2)).Return(movieOf(2, "thief"), nil)

	stdout, _, err := e.exec(t, "sync", "movie", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "synced movie 1 2\n", stdout)
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM movies WHERE needs_sync = 0"))
}

func TestSync_CreditsOfUnknownMovieCreatesRow(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().MovieCredits(gomock.Any(), int64(7)).Return(remote.Credits{}, nil)

	_, _, err := e.exec(t, "sync", "credits", "7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT needs_sync FROM movies WHERE trakt_id = 7"),
		"bare row waits for the pending loop")
}

func TestSync_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown_target", []string{"sync", "podcasts"}, `unknown sync target "podcasts"`},
		{"missing_id", []string{"sync", "movie"}, "needs at least one id"},
		{"bad_id", []string{"sync", "movie", "heat"}, `invalid id "heat"`},
		{"ids_not_taken", []string{"sync", "trending", "3"}, "takes no ids"},
		{"episode_ref", []string{"sync", "episode-comments", "1388", "1"}, "needs 3 ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCLIEnv(t)
			stdout, _, err := e.exec(t, tt.args...)

			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "Error [E006]")
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestSync_RemoteFailureAsJSON(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().MovieComments(gomock.Any(), int64(1390), 1, 2).
		Return(remote.Page[remote.Comment]{}, &remote.APIError{StatusCode: 503, Message: "unavailable"})

	stdout, _, err := e.exec(t, "--format", "json", "sync", "comments", "1390")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRemote, resp.Error.Code)
	assert.Equal(t, map[string]any{"failed_page": float64(1)}, resp.Error.Details)
}

func TestSync_EpisodeComments(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().EpisodeComments(gomock.Any(), int64(1388), 1, 1, 1, 2).
		Return(remote.Page[remote.Comment]{}, &remote.APIError{StatusCode: 404})

	stdout, _, err := e.exec(t, "sync", "episode-comments", "1388", "1", "1")
	require.NoError(t, err, "a gone episode is not an error")
	assert.Equal(t, "synced episode-comments 1388 1 1\n", stdout)
}

func TestSync_All(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().LastActivities(gomock.Any()).Return(remote.LastActivities{}, nil)
	e.cat.EXPECT().Watching(gomock.Any(), "sean").Return(nil, nil)
	e.cat.EXPECT().TrendingMovies(gomock.Any(), 1, 2).Return(emptyPage[remote.TrendingMovie](), nil)
	e.cat.EXPECT().TrendingShows(gomock.Any(), 1, 2).Return(emptyPage[remote.TrendingShow](), nil)
	e.cat.EXPECT().AnticipatedMovies(gomock.Any(), 1, 2).Return(emptyPage[remote.AnticipatedMovie](), nil)

	stdout, _, err := e.exec(t, "sync", "all")
	require.NoError(t, err)
	assert.Equal(t, "synced all\n", stdout)
}

func TestSync_AllReportsFailure(t *testing.T) {
	e := newCLIEnv(t)
	e.cat.EXPECT().LastActivities(gomock.Any()).Return(remote.LastActivities{}, &remote.TransportError{Method: "GET", Path: "/sync/last_activities"})
	e.cat.EXPECT().Watching(gomock.Any(), "sean").Return(nil, nil)
	e.cat.EXPECT().TrendingMovies(gomock.Any(), 1, 2).Return(emptyPage[remote.TrendingMovie](), nil)
	e.cat.EXPECT().TrendingShows(gomock.Any(), 1, 2).Return(emptyPage[remote.TrendingShow](), nil)
	e.cat.EXPECT().AnticipatedMovies(gomock.Any(), 1, 2).Return(emptyPage[remote.AnticipatedMovie](), nil)

	stdout, _, err := e.exec(t, "sync", "all")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E004]")
}
