package sched

import (
	"context"
	"log/slog"
	"sync"
)

// Runner drains a Queue, starting each job through the Manager. It does not
// wait for one job before starting the next; job outcomes are logged as they
// arrive. A failed job is not retried: the next tick enqueues it again.
type Runner struct {
	queue  *Queue
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a runner over q. A nil logger means slog.Default().
func NewRunner(q *Queue, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{queue: q, logger: logger}
}

// Run processes jobs until ctx is cancelled or the queue is closed and
// empty. On return no watcher goroutine is left behind, but the actions
// themselves keep running under the Manager.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("scheduler starting")
	defer r.wg.Wait()

	for {
		if j, ok := r.queue.TryDequeue(); ok {
			r.start(ctx, j)
			continue
		}

		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopping: context cancelled")
			r.queue.Close()
			return ctx.Err()
		case <-r.queue.Wait():
			if r.queue.drained() {
				r.logger.Info("scheduler stopping: queue closed")
				return nil
			}
		}
	}
}

func (r *Runner) start(ctx context.Context, j Job) {
	h := j.Start(ctx)
	r.logger.Debug("job started", "job", j.Name, "id", h.ID(), "shared", h.Shared())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		select {
		case <-h.Done():
		case <-ctx.Done():
			return
		}
		if err := h.Err(); err != nil {
			r.logger.Warn("job failed", "job", j.Name, "id", h.ID(), "error", err)
			return
		}
		r.logger.Debug("job completed", "job", j.Name, "id", h.ID())
	}()
}
