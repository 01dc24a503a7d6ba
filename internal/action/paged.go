package action

import (
	"context"

	"github.com/roach88/reelsync/internal/remote"
)

// PagedCall is a paginated action whose handler streams page by page.
// Each page is reconciled (and committed) before the next is requested.
type PagedCall[P, T any] interface {
	Key(p P) string

	// Call fetches one 1-based page.
	Call(ctx context.Context, p P, page int) (remote.Page[T], error)

	// HandlePage processes one non-empty page.
	HandlePage(ctx context.Context, p P, page int, items []T) error
}

// BatchCall is a paginated action whose handler sees the concatenation of
// all pages once pagination is exhausted.
type BatchCall[P, T any] interface {
	Key(p P) string
	Call(ctx context.Context, p P, page int) (remote.Page[T], error)

	// HandleAll runs exactly once after the last page, even when every page
	// was empty, so absence policies still apply.
	HandleAll(ctx context.Context, p P, items []T) error
}

// Finisher is implemented by paged calls with post-exhaustion work, e.g.
// stamping a last-synced timestamp. OnDone never runs after a failure.
type Finisher[P any] interface {
	OnDone(ctx context.Context, p P) error
}

// Cursor tracks one paged execution. It is created fresh per invocation,
// starts at page 1 and only moves forward.
type Cursor struct {
	Page      int
	Limit     int
	PageCount int
	HasMore   bool
}

func newCursor() Cursor {
	return Cursor{Page: 1, HasMore: true}
}

// observe records the metadata of the page just fetched.
func observe[T any](c *Cursor, pg remote.Page[T]) {
	c.Limit = pg.Limit
	c.PageCount = pg.PageCount
	c.HasMore = pg.HasMore()
}

// PagedOption configures a paged runner.
type PagedOption func(*pagedConfig)

type pagedConfig struct {
	maxPages int
}

// WithMaxPages caps how many pages one execution may fetch.
// Default: no cap; pagination runs while the server reports more pages.
// A non-positive value disables the cap.
func WithMaxPages(n int) PagedOption {
	return func(c *pagedConfig) {
		c.maxPages = n
	}
}

func newPagedConfig(opts []PagedOption) pagedConfig {
	var cfg pagedConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Paged adapts a streaming PagedCall into an Action.
func Paged[P, T any](c PagedCall[P, T], opts ...PagedOption) Action[P] {
	return &paged[P, T]{call: c, cfg: newPagedConfig(opts)}
}

type paged[P, T any] struct {
	call PagedCall[P, T]
	cfg  pagedConfig
}

func (a *paged[P, T]) Key(p P) string {
	return a.call.Key(p)
}

func (a *paged[P, T]) Invoke(ctx context.Context, p P) error {
	key := a.call.Key(p)
	quota := NewPageQuota(a.cfg.maxPages)

	for cur := newCursor(); cur.HasMore; cur.Page++ {
		if err := quota.Check(key); err != nil {
			return wrap(key, cur.Page, err)
		}

		pg, err := a.call.Call(ctx, p, cur.Page)
		if err != nil {
			if ignored(a.call, err) {
				return nil
			}
			return wrap(key, cur.Page, err)
		}
		observe(&cur, pg)

		if len(pg.Items) == 0 {
			break
		}
		if err := a.call.HandlePage(ctx, p, cur.Page, pg.Items); err != nil {
			return wrap(key, cur.Page, err)
		}
	}

	return finish(ctx, key, a.call, p)
}

// PagedBatch adapts an accumulating BatchCall into an Action.
func PagedBatch[P, T any](c BatchCall[P, T], opts ...PagedOption) Action[P] {
	return &pagedBatch[P, T]{call: c, cfg: newPagedConfig(opts)}
}

type pagedBatch[P, T any] struct {
	call BatchCall[P, T]
	cfg  pagedConfig
}

func (a *pagedBatch[P, T]) Key(p P) string {
	return a.call.Key(p)
}

func (a *pagedBatch[P, T]) Invoke(ctx context.Context, p P) error {
	key := a.call.Key(p)
	quota := NewPageQuota(a.cfg.maxPages)

	items := []T{}
	for cur := newCursor(); cur.HasMore; cur.Page++ {
		if err := quota.Check(key); err != nil {
			return wrap(key, cur.Page, err)
		}

		pg, err := a.call.Call(ctx, p, cur.Page)
		if err != nil {
			if ignored(a.call, err) {
				return nil
			}
			return wrap(key, cur.Page, err)
		}
		observe(&cur, pg)

		if len(pg.Items) == 0 {
			break
		}
		items = append(items, pg.Items...)
	}

	if err := a.call.HandleAll(ctx, p, items); err != nil {
		return wrap(key, 0, err)
	}
	return finish(ctx, key, a.call, p)
}

func finish[P any](ctx context.Context, key string, c any, p P) error {
	f, ok := c.(Finisher[P])
	if !ok {
		return nil
	}
	return wrap(key, 0, f.OnDone(ctx, p))
}
