package action

import (
	"context"
	"sync/atomic"
)

// Handle is the shared view of one execution. Every caller attached to the
// execution holds the same Handle.
type Handle struct {
	key     string
	id      string
	done    chan struct{}
	err     error
	waiters atomic.Int32
}

func newHandle(key, id string) *Handle {
	h := &Handle{key: key, id: id, done: make(chan struct{})}
	h.waiters.Store(1)
	return h
}

func (h *Handle) attach() {
	h.waiters.Add(1)
}

// finish records the terminal error and wakes every waiter. Called once.
func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// Key returns the action key of the execution.
func (h *Handle) Key() string {
	return h.key
}

// ID returns the invocation id of the execution.
func (h *Handle) ID() string {
	return h.id
}

// Done is closed when the execution completes.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the terminal error, or nil while running or on success.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Shared reports whether more than one caller attached to this execution.
func (h *Handle) Shared() bool {
	return h.waiters.Load() > 1
}

// Wait blocks until the execution completes or ctx ends. Giving up on ctx
// does not cancel the execution.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
