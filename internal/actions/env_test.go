package actions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/remote/mocks"
	"github.com/roach88/reelsync/internal/store"
	"github.com/roach88/reelsync/internal/testutil"
)

// env is one registry wired to a temp store and a mock catalog.
type env struct {
	st    *store.Store
	cat   *mocks.MockCatalog
	mgr   *action.Manager
	clock *testutil.FixedClock
	reg   *actions.Registry
}

// now is the FixedClock time in the unit the store uses.
var now = testutil.Epoch.UnixMilli()

func newEnv(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)
	e := &env{
		st:    testutil.NewStore(t),
		cat:   mocks.NewMockCatalog(ctrl),
		mgr:   action.New(action.WithIDGenerator(testutil.NewFixedGenerator())),
		clock: testutil.NewFixedClock(time.Time{}),
	}
	e.reg = actions.NewRegistry(actions.Deps{
		Store:     e.st,
		Catalog:   e.cat,
		Manager:   e.mgr,
		Clock:     e.clock,
		Username:  "sean",
		PageLimit: 2,
	})

	// Background cascades must finish before the controller checks calls.
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, e.mgr.Shutdown(ctx))
	})
	return e
}

func run[P any](t *testing.T, e *env, a action.Action[P], p P) error {
	t.Helper()
	return action.InvokeSync(context.Background(), e.mgr, a, p)
}

// drain waits for background executions without stopping the manager.
func (e *env) drain(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return e.mgr.InFlight() == 0 }, 5*time.Second, 5*time.Millisecond)
}

func (e *env) queryInt(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.st.DB().QueryRow(query, args...).Scan(&n))
	return n
}

func (e *env) movie(t *testing.T, traktID int64, v store.Values) int64 {
	t.Helper()
	id, err := e.st.UpsertByTraktID(context.Background(), store.TableMovies, traktID, v)
	require.NoError(t, err)
	return id
}

// fullPage returns a page the cursor treats as "more may follow".
func fullPage[T any](page int, items ...T) remote.Page[T] {
	return remote.Page[T]{Items: items, Page: page, Limit: len(items)}
}

// lastPage returns a page that ends pagination.
func lastPage[T any](page int, items ...T) remote.Page[T] {
	return remote.Page[T]{Items: items, Page: page, Limit: len(items) + 1}
}

func movieOf(traktID int64, title string) remote.Movie {
	return remote.Movie{Title: title, Year: 2020, IDs: remote.IDs{Trakt: traktID, Slug: title}}
}

func showOf(traktID int64, title string) remote.Show {
	return remote.Show{Title: title, Year: 2019, IDs: remote.IDs{Trakt: traktID, Slug: title}}
}

func commentOf(id int64, text, user string) remote.Comment {
	c := remote.Comment{ID: id, Comment: text, Likes: int(id % 7)}
	c.User.Username = user
	return c
}

var errServer = &remote.APIError{StatusCode: 500, Message: "boom"}

var errNotFound = &remote.APIError{StatusCode: 404, Message: "not found"}
