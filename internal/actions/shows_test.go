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

func season(traktID int64, number int, episodes ...remote.Episode) remote.Season {
	return remote.Season{Number: number, IDs: remote.IDs{Trakt: traktID}, Episodes: episodes}
}

func episode(traktID int64, season, number int) remote.Episode {
	return remote.Episode{Season: season, Number: number, Title: "ep", IDs: remote.IDs{Trakt: traktID}}
}

func TestSyncShow_MirrorsSeasonsAndEpisodes(t *testing.T) {
	e := newEnv(t)

	e.cat.EXPECT().Show(gomock.Any(), int64(5)).Return(showOf(5, "the-wire"), nil)
	e.cat.EXPECT().Seasons(gomock.Any(), int64(5)).Return([]remote.Season{
		season(50, 1, episode(500, 1, 1), episode(501, 1, 2)),
		season(51, 2, episode(510, 2, 1)),
	}, nil)

	require.NoError(t, run(t, e, e.reg.SyncShow, 5))

	assert.Equal(t, int64(0), e.queryInt(t, "SELECT needs_sync FROM shows WHERE trakt_id = 5"))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM seasons"))
	assert.Equal(t, int64(3), e.queryInt(t, "SELECT COUNT(*) FROM episodes"))

	id, err := e.st.EpisodeByNumber(context.Background(), 5, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, e.queryInt(t, "SELECT id FROM episodes WHERE trakt_id = 510"), id)
}

func TestSyncShow_SeasonFailureKeepsShowPending(t *testing.T) {
	e := newEnv(t)

	e.cat.EXPECT().Show(gomock.Any(), int64(5)).Return(showOf(5, "the-wire"), nil)
	e.cat.EXPECT().Seasons(gomock.Any(), int64(5)).Return(nil, errServer)

	err := run(t, e, e.reg.SyncShow, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SyncSeasons&traktId=5")
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT needs_sync FROM shows WHERE trakt_id = 5"))
}

func TestSyncSeasons_RemovesDroppedEpisodesAndKeepsDirtyWatched(t *testing.T) {
	e := newEnv(t)
	_, err := e.st.UpsertByTraktID(context.Background(), store.TableShows, 5, store.Values{"title": "the-wire"})
	require.NoError(t, err)

	gomock.InOrder(
		e.cat.EXPECT().Seasons(gomock.Any(), int64(5)).Return([]remote.Season{
			season(50, 1, episode(500, 1, 1), episode(501, 1, 2)),
		}, nil),
		e.cat.EXPECT().Seasons(gomock.Any(), int64(5)).Return([]remote.Season{
			season(50, 1, episode(500, 1, 1)),
		}, nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncSeasons, 5))

	// A local, unpushed watch mark.
	_, err = e.st.DB().Exec("UPDATE episodes SET watched = 1, dirty = 1 WHERE trakt_id = 500")
	require.NoError(t, err)

	require.NoError(t, run(t, e, e.reg.SyncSeasons, 5))

	assert.Equal(t, int64(0), e.queryInt(t, "SELECT COUNT(*) FROM episodes WHERE trakt_id = 501"))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT watched FROM episodes WHERE trakt_id = 500"))
}
