// Package reconcile makes a local scope match an authoritative remote set.
//
// A Reconciler loads the (key → local row) map of one scope, walks the
// remote items in server order, and plans one row operation per item:
// update when the key is known locally, insert otherwise. Local rows that
// no remote item matched are deleted, or overwritten with sentinel values
// when the scope is a flag or rank column on a shared table. The whole plan
// commits as one store batch.
//
// # Critical Patterns
//
// Surrogate ids are preserved: matched rows are updated in place, never
// deleted and re-inserted.
//
// Rows with unsynced local edits (DirtyColumn != 0) keep their Protect
// columns and are never deleted.
//
// Duplicate remote keys inside one pass collapse into the first planned op;
// later values win.
package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/roach88/reelsync/internal/store"
)

// Store is the subset of *store.Store a reconciler needs.
type Store interface {
	Query(ctx context.Context, q store.Query) (*sql.Rows, error)
	Apply(ctx context.Context, ops []store.Op) ([]int64, error)
}

// Local is what a reconciler knows about an existing row.
type Local struct {
	ID    int64
	Dirty bool
}

// Reconciler diffs remote items of type T, keyed by K, against one scope.
type Reconciler[T any, K comparable] struct {
	// Scope selects the local rows the remote set is authoritative for.
	Scope store.Scope

	// KeyColumn is scanned as K for every row in Scope.
	KeyColumn string

	// LoadKeys replaces the KeyColumn scan for keys that need a join or a
	// composite value.
	LoadKeys func(ctx context.Context) (map[K]Local, error)

	// Key extracts the correlation key of a remote item. Must be pure.
	Key func(item T) K

	// Values maps a remote item to column values, performing any nested
	// upserts (users, people, parents) first. index is the item's zero-based
	// position in server order.
	Values func(ctx context.Context, item T, index int) (store.Values, error)

	// Fixed values are written with every insert and update, typically the
	// scope columns (movie_id, in_watchlist) so inserted rows land in Scope.
	Fixed store.Values

	// Lookup is a secondary point lookup for keys missing from Scope. A hit
	// turns the insert into an update of the found row, moving it into Scope.
	Lookup func(ctx context.Context, key K) (Local, bool, error)

	// UpsertOn turns inserts into ON CONFLICT upserts on this unique column,
	// for scopes over shared tables where the row may exist outside Scope.
	UpsertOn string

	// Absent, when set, is written to unmatched rows instead of deleting them.
	Absent store.Values

	// KeepUnmatched leaves unmatched rows alone. Streaming passes that see
	// one page at a time set it and prune after the last page.
	KeepUnmatched bool

	// Index names a rank column that receives the item's position.
	Index string

	// DirtyColumn marks rows with unsynced local edits; Protect lists the
	// columns such rows keep.
	DirtyColumn string
	Protect     []string

	// Stamp ops are appended after the diff, e.g. a last-synced timestamp.
	Stamp []store.Op

	// URI is attached to every op for change notifications.
	URI store.URI
}

// Plan computes the diff without writing anything except nested upserts
// performed by Values.
func (r *Reconciler[T, K]) Plan(ctx context.Context, st Store, items []T) (Result, error) {
	existing, err := r.load(ctx, st)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile %s: load scope: %w", r.Scope.Table, err)
	}

	var res Result
	remaining := make(map[K]Local, len(existing))
	for k, l := range existing {
		remaining[k] = l
	}

	type slot struct {
		list  *[]store.Op
		index int
		dirty bool
	}
	planned := make(map[K]slot, len(items))

	for i, item := range items {
		k := r.Key(item)

		values, err := r.values(ctx, item, i)
		if err != nil {
			return Result{}, fmt.Errorf("reconcile %s: item %v: %w", r.Scope.Table, k, err)
		}

		if s, dup := planned[k]; dup {
			op := &(*s.list)[s.index]
			op.Values = op.Values.Merge(r.guard(values, s.dirty))
			continue
		}

		local, ok := existing[k]
		if ok {
			delete(remaining, k)
		} else if r.Lookup != nil {
			local, ok, err = r.Lookup(ctx, k)
			if err != nil {
				return Result{}, fmt.Errorf("reconcile %s: lookup %v: %w", r.Scope.Table, k, err)
			}
		}

		if ok {
			res.Updates = append(res.Updates, store.UpdateByID(r.Scope.Table, local.ID, r.guard(values, local.Dirty), r.URI))
			planned[k] = slot{list: &res.Updates, index: len(res.Updates) - 1, dirty: local.Dirty}
			continue
		}

		res.Inserts = append(res.Inserts, r.insert(values))
		planned[k] = slot{list: &res.Inserts, index: len(res.Inserts) - 1}
	}

	for _, local := range sortedLocals(remaining) {
		switch {
		case r.KeepUnmatched:
		case r.Absent != nil:
			v := r.guard(r.Absent, local.Dirty)
			if len(v) == 0 {
				continue
			}
			res.Sentinels = append(res.Sentinels, store.UpdateByID(r.Scope.Table, local.ID, v, r.URI))
		case local.Dirty:
			// Unsynced local edits outlive a missing remote item.
		default:
			res.Deletes = append(res.Deletes, store.DeleteByID(r.Scope.Table, local.ID, r.URI))
		}
	}

	res.Stamps = append(res.Stamps, r.Stamp...)
	return res, nil
}

// Apply plans the diff and commits it as one batch.
func (r *Reconciler[T, K]) Apply(ctx context.Context, st Store, items []T) (Result, error) {
	res, err := r.Plan(ctx, st, items)
	if err != nil {
		return Result{}, err
	}
	if err := ApplyAll(ctx, st, res); err != nil {
		return Result{}, fmt.Errorf("reconcile %s: %w", r.Scope.Table, err)
	}
	return res, nil
}

// ApplyAll commits several planned results in one transaction, for actions
// that reconcile more than one scope from a single response.
func ApplyAll(ctx context.Context, st Store, results ...Result) error {
	var ops []store.Op
	for _, res := range results {
		ops = append(ops, res.Ops()...)
	}
	if len(ops) == 0 {
		return nil
	}
	_, err := st.Apply(ctx, ops)
	return err
}

func (r *Reconciler[T, K]) values(ctx context.Context, item T, index int) (store.Values, error) {
	v := store.Values{}
	if r.Values != nil {
		got, err := r.Values(ctx, item, index)
		if err != nil {
			return nil, err
		}
		v = v.Merge(got)
	}
	if r.Index != "" {
		v[r.Index] = index
	}
	return v.Merge(r.Fixed), nil
}

// guard drops protected columns for dirty rows.
func (r *Reconciler[T, K]) guard(v store.Values, dirty bool) store.Values {
	if !dirty || len(r.Protect) == 0 {
		return v
	}
	return v.Without(r.Protect...)
}

func (r *Reconciler[T, K]) insert(v store.Values) store.Op {
	if r.UpsertOn == "" {
		return store.Insert(r.Scope.Table, v, r.URI)
	}
	op := store.Upsert(r.Scope.Table, r.UpsertOn, v, r.URI)
	if r.DirtyColumn != "" && len(r.Protect) > 0 {
		op.Guard = &store.Guard{Dirty: r.DirtyColumn, Columns: r.Protect}
	}
	return op
}

func (r *Reconciler[T, K]) load(ctx context.Context, st Store) (map[K]Local, error) {
	if r.LoadKeys != nil {
		return r.LoadKeys(ctx)
	}
	if r.KeyColumn == "" {
		return nil, fmt.Errorf("no KeyColumn or LoadKeys")
	}

	cols := []string{"id", r.KeyColumn}
	if r.DirtyColumn != "" {
		cols = append(cols, r.DirtyColumn)
	}

	rows, err := st.Query(ctx, store.Query{Scope: r.Scope, Columns: cols})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[K]Local)
	for rows.Next() {
		var (
			l     Local
			k     K
			dirty int64
		)
		dest := []any{&l.ID, &k}
		if r.DirtyColumn != "" {
			dest = append(dest, &dirty)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.Scope.Table, err)
		}
		l.Dirty = dirty != 0
		out[k] = l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortedLocals orders unmatched rows by id so plans are deterministic.
func sortedLocals[K comparable](m map[K]Local) []Local {
	out := make([]Local, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
