package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/remote/mocks"
	"github.com/roach88/reelsync/internal/store"
	"github.com/roach88/reelsync/internal/testutil"
)

// cliEnv is a config file and database in a temp dir plus a mock catalog
// injected into every command it runs.
type cliEnv struct {
	db     string
	config string
	cat    *mocks.MockCatalog
	clock  *testutil.FixedClock
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	e := &cliEnv{
		db:     filepath.Join(dir, "reelsync.db"),
		config: filepath.Join(dir, "config.yaml"),
		cat:    mocks.NewMockCatalog(gomock.NewController(t)),
		clock:  testutil.NewFixedClock(time.Time{}),
	}

	cfg := fmt.Sprintf("database: %s\nsync:\n  username: sean\n  page_limit: 2\n", e.db)
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o644))
	return e
}

// exec runs the root command with args and returns what it printed.
func (e *cliEnv) exec(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	opts := &RootOptions{Catalog: e.cat, Clock: e.clock}
	cmd := newRootCommand(opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// withStore opens the database outside any command, e.g. to seed or assert.
func (e *cliEnv) withStore(t *testing.T, fn func(st *store.Store)) {
	t.Helper()
	st, err := store.Open(e.db)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()
	fn(st)
}

func (e *cliEnv) queryInt(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	var n int64
	e.withStore(t, func(st *store.Store) {
		require.NoError(t, st.DB().QueryRowContext(context.Background(), query, args...).Scan(&n))
	})
	return n
}

func movieOf(traktID int64, title string) remote.Movie {
	return remote.Movie{Title: title, Year: 1995, Runtime: 170, IDs: remote.IDs{Trakt: traktID, Slug: title}}
}

func emptyPage[T any]() remote.Page[T] {
	return remote.Page[T]{Page: 1, Limit: 2}
}
