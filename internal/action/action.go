package action

import "context"

// Action is a keyed unit of remote work.
//
// Key must be a pure function of p: two parameter values that describe the
// same work must produce the same key, e.g. "SyncMovieComments&traktId=123".
type Action[P any] interface {
	Key(p P) string
	Invoke(ctx context.Context, p P) error
}

// Call is a single-shot action: one remote request, one handler.
type Call[P, T any] interface {
	Key(p P) string

	// Call issues exactly one remote request.
	Call(ctx context.Context, p P) (T, error)

	// Handle reconciles the response into the local store.
	Handle(ctx context.Context, p P, resp T) error
}

// ErrorFilter is implemented by calls that treat some remote failures as
// success, e.g. a 404 for an item deleted upstream. When IgnoreError
// returns true the handler is skipped and the invocation succeeds.
type ErrorFilter interface {
	IgnoreError(err error) bool
}

// Single adapts a Call into an Action.
func Single[P, T any](c Call[P, T]) Action[P] {
	return &single[P, T]{call: c}
}

type single[P, T any] struct {
	call Call[P, T]
}

func (s *single[P, T]) Key(p P) string {
	return s.call.Key(p)
}

func (s *single[P, T]) Invoke(ctx context.Context, p P) error {
	key := s.call.Key(p)

	resp, err := s.call.Call(ctx, p)
	if err != nil {
		if ignored(s.call, err) {
			return nil
		}
		return wrap(key, 0, err)
	}

	return wrap(key, 0, s.call.Handle(ctx, p, resp))
}

func ignored(c any, err error) bool {
	f, ok := c.(ErrorFilter)
	return ok && f.IgnoreError(err)
}

// Func is an Action built from plain functions. Useful for composite
// actions that only orchestrate other actions.
type Func[P any] struct {
	KeyFunc    func(p P) string
	InvokeFunc func(ctx context.Context, p P) error
}

func (f Func[P]) Key(p P) string {
	return f.KeyFunc(p)
}

func (f Func[P]) Invoke(ctx context.Context, p P) error {
	return wrap(f.KeyFunc(p), 0, f.InvokeFunc(ctx, p))
}
