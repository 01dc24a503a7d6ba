package action

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Manager owns the in-flight registry: at most one execution per action key.
//
// Thread-safety model:
//   - InvokeAsync / InvokeSync: safe from any goroutine
//   - The registry map is the only mutex-guarded state; executions never
//     hold the lock while running
//
// INVARIANTS:
//   - A key is present in the registry exactly while its execution runs
//   - Every caller attached to one execution observes the same Handle
//   - Completion (success or failure) removes the key before waking waiters
type Manager struct {
	mu       sync.Mutex
	inflight map[string]*Handle
	wg       sync.WaitGroup
	stopped  atomic.Bool

	logger   *slog.Logger
	ids      IDGenerator
	observer Observer
}

// Observer is told when each execution starts and finishes. Calls happen on
// the execution's goroutine, before waiters are woken.
type Observer interface {
	ExecutionStarted(h *Handle)
	ExecutionFinished(h *Handle, err error)
}

// Option allows configuration of the Manager.
type Option func(*Manager)

// WithLogger sets the logger for execution lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithIDGenerator sets the invocation id generator.
// Default: UUIDv7Generator. Tests pass a fixed generator for stable logs.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) {
		m.ids = g
	}
}

// WithObserver registers an Observer for execution lifecycle events.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// New creates a Manager. It must be shut down with Shutdown.
func New(opts ...Option) *Manager {
	m := &Manager{
		inflight: make(map[string]*Handle),
		logger:   slog.Default(),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InvokeAsync starts a on its own goroutine unless an execution with the
// same key is already in flight, in which case the caller attaches to it.
// Either way the returned Handle resolves when that execution completes.
//
// The execution runs on a context detached from ctx's cancellation; ctx
// still supplies values (e.g. request-scoped loggers).
func InvokeAsync[P any](ctx context.Context, m *Manager, a Action[P], p P) *Handle {
	key := a.Key(p)

	m.mu.Lock()
	if h, ok := m.inflight[key]; ok {
		h.attach()
		m.mu.Unlock()
		m.logger.Debug("action attached", "key", key, "id", h.id)
		return h
	}

	h := newHandle(key, m.ids.Generate())
	m.inflight[key] = h
	m.wg.Add(1)
	m.mu.Unlock()

	execCtx := context.WithoutCancel(ctx)
	go m.execute(execCtx, h, func(ctx context.Context) error {
		return a.Invoke(ctx, p)
	})

	return h
}

// InvokeSync is InvokeAsync followed by Handle.Wait. If ctx ends first the
// caller gets ctx.Err() and the execution keeps running.
func InvokeSync[P any](ctx context.Context, m *Manager, a Action[P], p P) error {
	return InvokeAsync(ctx, m, a, p).Wait(ctx)
}

func (m *Manager) execute(ctx context.Context, h *Handle, run func(context.Context) error) {
	defer m.wg.Done()

	start := time.Now()
	m.logger.Info("action started", "key", h.key, "id", h.id)
	if m.observer != nil {
		m.observer.ExecutionStarted(h)
	}

	err := safeRun(ctx, h.key, run)

	m.mu.Lock()
	if m.inflight[h.key] == h {
		delete(m.inflight, h.key)
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("action failed",
			"key", h.key,
			"id", h.id,
			"page", FailedPage(err),
			"duration", time.Since(start),
			"error", err,
		)
	} else {
		m.logger.Info("action completed",
			"key", h.key,
			"id", h.id,
			"waiters", h.waiters.Load(),
			"duration", time.Since(start),
		)
	}

	if m.observer != nil {
		m.observer.ExecutionFinished(h, err)
	}
	h.finish(err)
}

// safeRun converts a panicking action into an error so one bad handler
// cannot take the process down with it.
func safeRun(ctx context.Context, key string, run func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Key: key, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return wrap(key, 0, run(ctx))
}

// InFlight returns the number of executions currently running.
func (m *Manager) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inflight)
}

// IsRunning reports whether an execution for key is in flight.
func (m *Manager) IsRunning(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inflight[key]
	return ok
}

// Stop raises the stop flag. Running executions are not interrupted; batch
// loops check Stopped between items and return early.
func (m *Manager) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		m.logger.Info("action manager stopping", "in_flight", m.InFlight())
	}
}

// Stopped reports whether Stop has been called.
func (m *Manager) Stopped() bool {
	return m.stopped.Load()
}

// Shutdown stops the manager and waits for in-flight executions to finish
// or for ctx to end.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.Stop()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %d actions still running: %w", m.InFlight(), ctx.Err())
	}
}
