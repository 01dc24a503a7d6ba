// Package sched runs sync actions in the background: a FIFO of jobs, a
// runner that starts them through the action Manager, and a ticker that
// enqueues the periodic activity check.
package sched

import (
	"context"
	"sync"

	"github.com/roach88/reelsync/internal/action"
)

// Job is one unit of scheduled work. Start must not block; it hands the work
// to the Manager and returns the handle to watch.
type Job struct {
	Name  string
	Start func(ctx context.Context) *action.Handle
}

// ActionJob builds a job that invokes a with p.
func ActionJob[P any](m *action.Manager, a action.Action[P], p P) Job {
	return Job{
		Name: a.Key(p),
		Start: func(ctx context.Context) *action.Handle {
			return action.InvokeAsync(ctx, m, a, p)
		},
	}
}

// Queue is an unbounded FIFO of jobs, safe for concurrent use.
//
// Waiting is done through the signal channel so the runner can select on it
// together with ctx.Done.
type Queue struct {
	mu     sync.Mutex
	jobs   []Job
	closed bool
	signal chan struct{} // buffered, size 1
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		jobs:   make([]Job, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds j to the back of the queue. Returns false once the queue is
// closed.
func (q *Queue) Enqueue(j Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.jobs = append(q.jobs, j)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front job without blocking.
func (q *Queue) TryDequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return Job{}, false
	}
	j := q.jobs[0]
	q.jobs[0] = Job{}
	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}
	return j, true
}

// Wait returns a channel that fires when jobs may be available. It is
// closed by Close.
func (q *Queue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close rejects further jobs and wakes waiters.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// drained reports whether the queue is closed and empty.
func (q *Queue) drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.jobs) == 0
}
