package actions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

func TestSyncList_ItemsInOrderWithMixedKinds(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"title": "heat", "needs_sync": 0})

	l := remote.List{Name: "crime", ItemCount: 3, IDs: remote.IDs{Trakt: 900, Slug: "crime"}}
	l.User.Username = "Ana"
	m, s, p := movieOf(1, "heat"), showOf(5, "the-wire"), person(200, "mann")
	listedAt := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		e.cat.EXPECT().List(gomock.Any(), int64(900)).Return(l, nil),
		e.cat.EXPECT().ListItems(gomock.Any(), int64(900)).Return([]remote.ListEntry{
			{Type: remote.KindShow, Show: &s, ListedAt: listedAt},
			{Type: remote.KindMovie, Movie: &m, ListedAt: listedAt},
			{Type: remote.KindPerson, Person: &p, ListedAt: listedAt},
			{Type: remote.KindEpisode, Show: &s, Episode: &remote.Episode{IDs: remote.IDs{Trakt: 999}}},
		}, nil),
	)
	// The new show is bare; the cascade fills it in the background.
	e.cat.EXPECT().Show(gomock.Any(), int64(5)).Return(s, nil).AnyTimes()
	e.cat.EXPECT().Seasons(gomock.Any(), int64(5)).Return(nil, nil).AnyTimes()

	require.NoError(t, run(t, e, e.reg.SyncList, 900))
	e.drain(t)

	assert.Equal(t, int64(3), e.queryInt(t, "SELECT COUNT(*) FROM list_items"), "unknown episodes wait")
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT list_index FROM list_items WHERE item_type = 'movie'"))
	assert.Equal(t, listedAt.UnixMilli(), e.queryInt(t, "SELECT listed_at FROM list_items WHERE item_type = 'person'"))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM users WHERE username = 'Ana'"))
	assert.Equal(t, now, e.queryInt(t, "SELECT last_sync FROM lists WHERE trakt_id = 900"))
}

func TestSyncListItems_RemovesDroppedEntries(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"needs_sync": 0})
	e.movie(t, 2, store.Values{"needs_sync": 0})
	_, err := e.st.UpsertByTraktID(t.Context(), store.TableLists, 900, store.Values{"name": "crime"})
	require.NoError(t, err)

	m1, m2 := movieOf(1, "heat"), movieOf(2, "thief")
	gomock.InOrder(
		e.cat.EXPECT().ListItems(gomock.Any(), int64(900)).Return([]remote.ListEntry{
			{Type: remote.KindMovie, Movie: &m1},
			{Type: remote.KindMovie, Movie: &m2},
		}, nil),
		e.cat.EXPECT().ListItems(gomock.Any(), int64(900)).Return([]remote.ListEntry{
			{Type: remote.KindMovie, Movie: &m2},
		}, nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncListItems, 900))
	require.NoError(t, run(t, e, e.reg.SyncListItems, 900))

	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM list_items"))
	assert.Equal(t, int64(0), e.queryInt(t, "SELECT list_index FROM list_items"))
}
