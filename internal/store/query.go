package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Scope is the subset of one table that a remote result set is authoritative
// for, e.g. comments WHERE item_type = 'movie' AND item_id = 7.
// An empty Where means the whole table.
type Scope struct {
	Table string
	Where string
	Args  []any
}

// And narrows the scope with an extra predicate.
func (sc Scope) And(where string, args ...any) Scope {
	out := Scope{Table: sc.Table, Args: append(append([]any{}, sc.Args...), args...)}
	switch {
	case sc.Where == "":
		out.Where = where
	case where == "":
		out.Where = sc.Where
	default:
		out.Where = "(" + sc.Where + ") AND (" + where + ")"
	}
	return out
}

// Query is a scoped read of selected columns.
type Query struct {
	Scope   Scope
	Columns []string
	OrderBy string
	Limit   int
}

func (q Query) build() (string, []any, error) {
	if q.Scope.Table == "" {
		return "", nil, fmt.Errorf("query without table")
	}

	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, q.Scope.Table)
	if q.Scope.Where != "" {
		fmt.Fprintf(&b, " WHERE %s", q.Scope.Where)
	}
	if q.OrderBy != "" {
		fmt.Fprintf(&b, " ORDER BY %s", q.OrderBy)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), q.Scope.Args, nil
}

// Query runs a scoped read. The caller must close the returned rows.
func (s *Store) Query(ctx context.Context, q Query) (*sql.Rows, error) {
	query, args, err := q.build()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Scope.Table, err)
	}
	return rows, nil
}

// Count returns the number of rows in a scope.
func (s *Store) Count(ctx context.Context, sc Scope) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", sc.Table)
	if sc.Where != "" {
		query += " WHERE " + sc.Where
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, sc.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", sc.Table, err)
	}
	return n, nil
}

// Int64s reads a single integer column from a scope, in the given order.
// Returns an empty slice (not nil) when no rows match.
func (s *Store) Int64s(ctx context.Context, sc Scope, column, orderBy string) ([]int64, error) {
	rows, err := s.Query(ctx, Query{Scope: sc, Columns: []string{column}, OrderBy: orderBy})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", sc.Table, column, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", sc.Table, err)
	}
	return out, nil
}
