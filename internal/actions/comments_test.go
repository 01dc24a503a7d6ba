package actions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

func TestSyncMovieComments_AllPagesInOrder(t *testing.T) {
	e := newEnv(t)
	movieID := e.movie(t, 1, store.Values{"title": "heat"})

	gomock.InOrder(
		e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 1, 2).
			Return(fullPage(1, commentOf(301, "first", "ana"), commentOf(302, "second", "bo")), nil),
		e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 2, 2).
			Return(lastPage(2, commentOf(303, "third", "ana")), nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncMovieComments, 1))

	assert.Equal(t, int64(3), e.queryInt(t, "SELECT COUNT(*) FROM comments WHERE item_type = 'movie' AND item_id = ?", movieID))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT comment_index FROM comments WHERE trakt_id = 303"))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM users"), "authors are upserted once each")
	assert.Equal(t, now, e.queryInt(t, "SELECT last_comment_sync FROM movies WHERE trakt_id = 1"))
}

func TestSyncMovieComments_FailedPageCommitsNothing(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"title": "heat"})

	gomock.InOrder(
		e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 1, 2).
			Return(fullPage(1, commentOf(301, "first", "ana"), commentOf(302, "second", "bo")), nil).Times(1),
		e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 2, 2).
			Return(remote.Page[remote.Comment]{}, errServer).Times(1),
	)

	err := run(t, e, e.reg.SyncMovieComments, 1)
	require.Error(t, err)
	assert.Equal(t, 2, action.FailedPage(err))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT COUNT(*) FROM comments"))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT last_comment_sync FROM movies WHERE trakt_id = 1"))
}

func TestSyncMovieComments_EmptyRemoteClearsScope(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"title": "heat"})

	gomock.InOrder(
		e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 1, 2).
			Return(lastPage(1, commentOf(301, "first", "ana")), nil),
		e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 1, 2).
			Return(remote.Page[remote.Comment]{Page: 1, Limit: 2}, nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncMovieComments, 1))
	require.NoError(t, run(t, e, e.reg.SyncMovieComments, 1))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT COUNT(*) FROM comments"))
}

func TestSyncMovieComments_GoneIsSuccess(t *testing.T) {
	e := newEnv(t)
	e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 1, 2).Return(remote.Page[remote.Comment]{}, errNotFound)

	require.NoError(t, run(t, e, e.reg.SyncMovieComments, 1))
}

func TestSyncMovieComments_AdoptsCommentStoredByLikes(t *testing.T) {
	e := newEnv(t)
	movieID := e.movie(t, 1, store.Values{"title": "heat"})
	_, err := e.st.Apply(context.Background(), []store.Op{
		store.Insert(store.TableComments, store.Values{"trakt_id": 301, "liked": 1, "comment": "old"}, ""),
	})
	require.NoError(t, err)

	e.cat.EXPECT().MovieComments(gomock.Any(), int64(1), 1, 2).
		Return(lastPage(1, commentOf(301, "edited", "ana")), nil)

	require.NoError(t, run(t, e, e.reg.SyncMovieComments, 1))

	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM comments WHERE trakt_id = 301"))
	assert.Equal(t, movieID, e.queryInt(t, "SELECT item_id FROM comments WHERE trakt_id = 301"))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT liked FROM comments WHERE trakt_id = 301"))
}

func TestSyncEpisodeComments(t *testing.T) {
	e := newEnv(t)
	e.cat.EXPECT().Seasons(gomock.Any(), int64(5)).Return([]remote.Season{
		season(50, 1, episode(500, 1, 1)),
	}, nil)
	_, err := e.st.UpsertByTraktID(context.Background(), store.TableShows, 5, store.Values{"title": "the-wire"})
	require.NoError(t, err)
	require.NoError(t, run(t, e, e.reg.SyncSeasons, 5))

	ref := actions.EpisodeRef{ShowTraktID: 5, Season: 1, Episode: 1}
	e.cat.EXPECT().EpisodeComments(gomock.Any(), int64(5), 1, 1, 1, 2).
		Return(lastPage(1, commentOf(700, "omar", "ana")), nil)

	require.NoError(t, run(t, e, e.reg.SyncEpisodeComments, ref))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM comments WHERE item_type = 'episode'"))
	assert.Equal(t, now, e.queryInt(t, "SELECT last_comment_sync FROM episodes WHERE trakt_id = 500"))
}

func TestSyncCommentReplies_PrunesAfterLastPage(t *testing.T) {
	e := newEnv(t)
	movieID := e.movie(t, 1, store.Values{"title": "heat"})
	_, err := e.st.Apply(context.Background(), []store.Op{
		store.Insert(store.TableComments, store.Values{"trakt_id": 300, "item_type": "movie", "item_id": movieID}, ""),
	})
	require.NoError(t, err)

	gomock.InOrder(
		e.cat.EXPECT().CommentReplies(gomock.Any(), int64(300), 1, 2).
			Return(fullPage(1, commentOf(401, "a", "ana"), commentOf(402, "b", "bo")), nil),
		e.cat.EXPECT().CommentReplies(gomock.Any(), int64(300), 2, 2).
			Return(lastPage(2, commentOf(403, "c", "ana")), nil),
		e.cat.EXPECT().CommentReplies(gomock.Any(), int64(300), 1, 2).
			Return(lastPage(1, commentOf(401, "a", "ana")), nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncCommentReplies, 300))
	assert.Equal(t, int64(3), e.queryInt(t, "SELECT COUNT(*) FROM comments WHERE parent_id = 300"))
	assert.Equal(t, movieID, e.queryInt(t, "SELECT item_id FROM comments WHERE trakt_id = 403"))

	// 402 is liked by the user and must survive pruning.
	_, err = e.st.DB().Exec("UPDATE comments SET liked = 1 WHERE trakt_id = 402")
	require.NoError(t, err)
	e.clock.Advance(time.Minute)

	require.NoError(t, run(t, e, e.reg.SyncCommentReplies, 300))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM comments WHERE parent_id = 300"))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT COUNT(*) FROM comments WHERE trakt_id = 403"))
}

func TestSyncCommentLikes_UnlikeKeepsComment(t *testing.T) {
	e := newEnv(t)
	likedAt := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	c := commentOf(301, "nice", "ana")

	gomock.InOrder(
		e.cat.EXPECT().LikedComments(gomock.Any(), 1, 2).Return(lastPage(1,
			remote.LikedItem{LikedAt: likedAt, Type: remote.KindComment, Comment: &c},
			remote.LikedItem{LikedAt: likedAt, Type: remote.KindList, List: &remote.List{Name: "faves"}},
		), nil),
		e.cat.EXPECT().LikedComments(gomock.Any(), 1, 2).Return(remote.Page[remote.LikedItem]{Page: 1, Limit: 2}, nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncCommentLikes, 0))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT liked FROM comments WHERE trakt_id = 301"))
	assert.Equal(t, likedAt.UnixMilli(), e.queryInt(t, "SELECT liked_at FROM comments WHERE trakt_id = 301"))

	since := int64(1_700_000_000_000)
	require.NoError(t, run(t, e, e.reg.SyncCommentLikes, since))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT liked FROM comments WHERE trakt_id = 301"))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM comments"))

	mark, err := e.st.Setting(context.Background(), actions.SettingCommentLiked)
	require.NoError(t, err)
	assert.Equal(t, since, mark)
}
