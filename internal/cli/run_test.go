package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
)

// startDaemon runs `reelsync run` until the returned cancel is called.
func startDaemon(t *testing.T, e *cliEnv, args ...string) (stdout *bytes.Buffer, stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	opts := &RootOptions{Catalog: e.cat, Clock: e.clock}
	cmd := newRootCommand(opts)
	stdout = &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", e.config, "run"}, args...))

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	return stdout, func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("run did not stop after cancel")
			return nil
		}
	}
}

// expectTick sets up the remote calls of one scheduler tick on an empty
// database and returns a WaitGroup that is done once both happened.
func expectTick(e *cliEnv) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(2)
	e.cat.EXPECT().LastActivities(gomock.Any()).
		Do(func(context.Context) { wg.Done() }).
		Return(remote.LastActivities{}, nil)
	e.cat.EXPECT().Watching(gomock.Any(), "sean").
		Do(func(context.Context, string) { wg.Done() }).
		Return(nil, nil)
	return &wg
}

func waitGroup(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled jobs did not run")
	}
}

func TestRun_FirstTickRunsImmediately(t *testing.T) {
	e := newCLIEnv(t)
	wg := expectTick(e)

	stdout, stop := startDaemon(t, e, "--interval", "1h")
	waitGroup(t, wg)

	require.NoError(t, stop())
	assert.Contains(t, stdout.String(), "Scheduler started")
}

func TestRun_WritesRotatingLogFile(t *testing.T) {
	e := newCLIEnv(t)
	logPath := filepath.Join(t.TempDir(), "reelsync.log")
	cfg, err := os.ReadFile(e.config)
	require.NoError(t, err)
	cfg = append(cfg, fmt.Sprintf("log:\n  file: %s\n", logPath)...)
	require.NoError(t, os.WriteFile(e.config, cfg, 0o644))

	wg := expectTick(e)
	_, stop := startDaemon(t, e, "--interval", "1h")
	waitGroup(t, wg)
	require.NoError(t, stop())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scheduler starting")
	assert.Contains(t, string(data), "scheduler stopped gracefully")
}

func TestRun_InvalidIntervalConfig(t *testing.T) {
	e := newCLIEnv(t)
	cfg := fmt.Sprintf("database: %s\nsync:\n  interval: 5s\n", e.db)
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o644))

	stdout, _, err := e.exec(t, "run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E002]")
}
