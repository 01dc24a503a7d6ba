package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Values maps column names to values for one row write.
type Values map[string]any

// Columns returns the column names in sorted order so generated SQL is stable.
func (v Values) Columns() []string {
	cols := make([]string, 0, len(v))
	for c := range v {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Merge returns a copy of v with other's entries layered on top.
func (v Values) Merge(other Values) Values {
	out := make(Values, len(v)+len(other))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range other {
		out[k] = val
	}
	return out
}

// Without returns a copy of v minus the named columns.
func (v Values) Without(cols ...string) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	for _, c := range cols {
		delete(out, c)
	}
	return out
}

// OpKind identifies the kind of row operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpUpdate
	OpDelete
	OpUpsert
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpUpsert:
		return "upsert"
	default:
		return "unknown"
	}
}

// Guard keeps Columns untouched on rows whose Dirty column is non-zero.
// Only meaningful for upserts; updates planned against a known row simply
// omit the protected columns.
type Guard struct {
	Dirty   string
	Columns []string
}

// Op is a single row operation inside a batch.
//
// Update and Delete target a row by ID, or by Where/Args when ID is zero.
// Upsert inserts Values and, on a Conflict column clash, updates every other
// column (respecting Guard).
type Op struct {
	Kind     OpKind
	Table    string
	ID       int64
	Where    string
	Args     []any
	Values   Values
	Conflict string
	Guard    *Guard

	// Require makes an Update fail with ErrMissingRow if nothing matched.
	Require bool

	// URI is published to subscribers after the batch commits.
	URI URI
}

// Insert builds an insert op.
func Insert(table string, v Values, uri URI) Op {
	return Op{Kind: OpInsert, Table: table, Values: v, URI: uri}
}

// Upsert builds an insert-or-update op keyed on a unique column.
func Upsert(table, conflict string, v Values, uri URI) Op {
	return Op{Kind: OpUpsert, Table: table, Conflict: conflict, Values: v, URI: uri}
}

// UpdateByID builds an update of one row by surrogate id.
func UpdateByID(table string, id int64, v Values, uri URI) Op {
	return Op{Kind: OpUpdate, Table: table, ID: id, Values: v, URI: uri}
}

// DeleteByID builds a delete of one row by surrogate id.
func DeleteByID(table string, id int64, uri URI) Op {
	return Op{Kind: OpDelete, Table: table, ID: id, URI: uri}
}

// Apply executes ops in order inside one transaction and publishes the ops'
// URIs after commit. The returned slice has one entry per op: the row id for
// inserts and upserts, the affected row count for updates and deletes.
//
// Either every op is applied or none is.
func (s *Store) Apply(ctx context.Context, ops []Op) ([]int64, error) {
	if len(ops) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("apply batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	results := make([]int64, len(ops))
	uris := make([]URI, 0, len(ops))
	for i, op := range ops {
		n, err := execOp(ctx, tx, op)
		if err != nil {
			return nil, fmt.Errorf("apply batch: op %d (%s %s): %w", i, op.Kind, op.Table, err)
		}
		results[i] = n
		uris = append(uris, op.URI)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("apply batch: commit: %w", err)
	}

	s.notifier.Publish(uris)
	return results, nil
}

func execOp(ctx context.Context, ex execContext, op Op) (int64, error) {
	switch op.Kind {
	case OpInsert:
		return execInsert(ctx, ex, op)
	case OpUpsert:
		return execUpsert(ctx, ex, op)
	case OpUpdate:
		return execUpdate(ctx, ex, op)
	case OpDelete:
		return execDelete(ctx, ex, op)
	default:
		return 0, fmt.Errorf("unknown op kind %d", op.Kind)
	}
}

func execInsert(ctx context.Context, ex execContext, op Op) (int64, error) {
	if len(op.Values) == 0 {
		res, err := ex.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", op.Table))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	cols := op.Values.Columns()
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		op.Table, strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := ex.ExecContext(ctx, query, valueArgs(op.Values, cols)...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func execUpsert(ctx context.Context, ex execContext, op Op) (int64, error) {
	if op.Conflict == "" {
		return 0, fmt.Errorf("upsert without conflict column")
	}
	if _, ok := op.Values[op.Conflict]; !ok {
		return 0, fmt.Errorf("upsert values missing conflict column %q", op.Conflict)
	}

	cols := op.Values.Columns()
	guarded := map[string]bool{}
	if op.Guard != nil {
		for _, c := range op.Guard.Columns {
			guarded[c] = true
		}
	}

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == op.Conflict {
			continue
		}
		if guarded[c] {
			sets = append(sets, fmt.Sprintf("%s = CASE WHEN %s != 0 THEN %s ELSE excluded.%s END",
				c, op.Guard.Dirty, c, c))
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	// DO UPDATE with a no-op assignment still returns the existing id.
	if len(sets) == 0 {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", op.Conflict, op.Conflict))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s RETURNING id",
		op.Table, strings.Join(cols, ", "), placeholders(len(cols)),
		op.Conflict, strings.Join(sets, ", "))

	var id int64
	if err := ex.QueryRowContext(ctx, query, valueArgs(op.Values, cols)...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func execUpdate(ctx context.Context, ex execContext, op Op) (int64, error) {
	if len(op.Values) == 0 {
		return 0, nil
	}

	cols := op.Values.Columns()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}

	where, whereArgs, err := target(op)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", op.Table, strings.Join(sets, ", "), where)
	args := append(valueArgs(op.Values, cols), whereArgs...)
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 && op.Require {
		key := any(op.ID)
		if op.ID == 0 {
			key = op.Where
		}
		return 0, missingRow(op.Table, key)
	}
	return n, nil
}

func execDelete(ctx context.Context, ex execContext, op Op) (int64, error) {
	where, whereArgs, err := target(op)
	if err != nil {
		return 0, err
	}

	res, err := ex.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", op.Table, where), whereArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// target resolves the row predicate for update/delete ops. A bare table-wide
// update or delete is refused.
func target(op Op) (string, []any, error) {
	if op.ID != 0 {
		return "id = ?", []any{op.ID}, nil
	}
	if op.Where == "" {
		return "", nil, fmt.Errorf("%s on %s has no target", op.Kind, op.Table)
	}
	return op.Where, op.Args, nil
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func valueArgs(v Values, cols []string) []any {
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = v[c]
	}
	return args
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
