package reconcile

import (
	"fmt"
	"strings"

	"github.com/roach88/reelsync/internal/store"
)

// Result is the planned diff of one reconciliation pass.
type Result struct {
	Inserts   []store.Op
	Updates   []store.Op
	Sentinels []store.Op
	Deletes   []store.Op
	Stamps    []store.Op
}

// Ops returns every planned op in apply order.
func (r Result) Ops() []store.Op {
	n := len(r.Inserts) + len(r.Updates) + len(r.Sentinels) + len(r.Deletes) + len(r.Stamps)
	ops := make([]store.Op, 0, n)
	ops = append(ops, r.Inserts...)
	ops = append(ops, r.Updates...)
	ops = append(ops, r.Sentinels...)
	ops = append(ops, r.Deletes...)
	ops = append(ops, r.Stamps...)
	return ops
}

// Empty reports whether the pass changes nothing.
func (r Result) Empty() bool {
	return len(r.Ops()) == 0
}

// Summary is a one-line count of the plan, used in log lines.
func (r Result) Summary() string {
	return fmt.Sprintf("+%d ~%d !%d -%d", len(r.Inserts), len(r.Updates), len(r.Sentinels), len(r.Deletes))
}

// Describe renders the plan as stable text, one op per line.
//
// Format:
//
//	insert movie_cast {character="Neo", person_id=3}
//	update comments #4 {likes=2}
//	sentinel movies #9 {trending_index=-1}
//	delete comments #7
func (r Result) Describe() string {
	var b strings.Builder
	write := func(label string, ops []store.Op) {
		for _, op := range ops {
			b.WriteString(describeOp(label, op))
			b.WriteByte('\n')
		}
	}
	write("insert", r.Inserts)
	write("update", r.Updates)
	write("sentinel", r.Sentinels)
	write("delete", r.Deletes)
	write("stamp", r.Stamps)
	return b.String()
}

func describeOp(label string, op store.Op) string {
	if op.Kind == store.OpUpsert {
		label = "upsert"
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteByte(' ')
	b.WriteString(op.Table)
	switch {
	case op.ID != 0:
		fmt.Fprintf(&b, " #%d", op.ID)
	case op.Where != "":
		fmt.Fprintf(&b, " where %s %v", op.Where, op.Args)
	case op.Conflict != "":
		fmt.Fprintf(&b, " on %s", op.Conflict)
	}

	if len(op.Values) > 0 {
		cols := op.Values.Columns()
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = c + "=" + formatValue(op.Values[c])
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(parts, ", "))
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprint(x)
	}
}
