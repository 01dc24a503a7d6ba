package sched

import (
	"context"
	"time"
)

// Ticker enqueues the same jobs every Interval, and once immediately.
type Ticker struct {
	Queue    *Queue
	Interval time.Duration
	Jobs     func() []Job
}

// Run ticks until ctx is cancelled or the queue rejects a job.
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.Interval)
	defer tk.Stop()

	for {
		for _, j := range t.Jobs() {
			if !t.Queue.Enqueue(j) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
	}
}
