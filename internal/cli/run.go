package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/reelsync/internal/sched"
	"github.com/roach88/reelsync/internal/store"
)

// runRetention is how long finished runs stay in the journal.
const runRetention = 30 * 24 * time.Hour

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// Interval overrides sync.interval when non-zero.
	Interval time.Duration
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Keep the local mirror in sync until interrupted",
		Long: `Run the sync scheduler.

Every interval the scheduler pushes pending local edits, then syncs the
collections whose last-activity stamp changed, the current check-in and any
movies or shows that only hold a remote id. A failed job is logged and
retried on the next tick.

Example:
  reelsync run
  reelsync run --interval 5m --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "sync interval (overrides config)")

	return cmd
}

func runDaemon(cmd *cobra.Command, opts *RunOptions) error {
	f := formatter(cmd, opts.RootOptions)

	a, err := openApp(cmd, opts.RootOptions, true)
	if err != nil {
		return report(f, err)
	}
	defer func() {
		if closeErr := a.close(); closeErr != nil {
			a.logger.Error("error during shutdown", "error", closeErr)
		}
	}()

	interval := a.cfg.Sync.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	abandoned, err := a.journal.RecoverRuns(ctx, runRetention)
	if err != nil {
		return report(f, WrapExitError(ExitFailure, "failed to recover run journal", err))
	}
	if abandoned > 0 {
		a.logger.Warn("previous process left runs unfinished", "count", abandoned)
	}

	queue := sched.NewQueue()
	runner := sched.NewRunner(queue, a.logger)
	ticker := &sched.Ticker{
		Queue:    queue,
		Interval: interval,
		Jobs:     a.scheduledJobs,
	}

	changes, unsubscribe := a.store.Subscribe(store.URIRoot)
	defer unsubscribe()

	a.logger.Info("scheduler starting", "db", a.cfg.Database, "interval", interval)
	fmt.Fprintln(cmd.OutOrStdout(), "Scheduler started. Press Ctrl-C to stop.")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error { return ticker.Run(gctx) })
	g.Go(func() error {
		logChanges(gctx, a.logger, changes)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return report(f, WrapExitError(ExitFailure, "scheduler error", err))
	}

	a.logger.Info("scheduler stopped gracefully")
	return nil
}

// scheduledJobs is one tick of work. Pushes go first so the activity pass
// sees the remote state that includes local edits.
func (a *app) scheduledJobs() []sched.Job {
	r := a.reg
	return []sched.Job{
		sched.ActionJob(a.manager, r.PushPendingMovies, struct{}{}),
		sched.ActionJob(a.manager, r.SyncUserActivity, struct{}{}),
		sched.ActionJob(a.manager, r.SyncWatching, struct{}{}),
		sched.ActionJob(a.manager, r.SyncPendingMovies, struct{}{}),
		sched.ActionJob(a.manager, r.SyncPendingShows, struct{}{}),
	}
}

// logChanges logs store change notifications until ctx ends.
func logChanges(ctx context.Context, logger *slog.Logger, changes <-chan store.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			logger.Debug("store changed", "uri", c.URI)
		}
	}
}
