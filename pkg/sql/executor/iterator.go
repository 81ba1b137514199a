// pkg/sql/executor/iterator.go
package executor

import (
	"sort"

	"relkernel/pkg/schema"
	"relkernel/pkg/sql/parser"
	"relkernel/pkg/types"
)

// RowIterator is the pull interface every kernel stage implements: call
// Next until it returns false, reading Value after each true return. Err
// reports the failure, if any, that stopped iteration early.
type RowIterator interface {
	Next() bool
	Value() []types.Value
	Err() error
	Close()
}

// sliceIterator walks a fixed, already-materialized row set.
type sliceIterator struct {
	rows [][]types.Value
	pos  int
}

func newSliceIterator(rows [][]types.Value) *sliceIterator {
	return &sliceIterator{rows: rows, pos: -1}
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.pos < len(it.rows)
}
func (it *sliceIterator) Value() []types.Value { return it.rows[it.pos] }
func (it *sliceIterator) Err() error           { return nil }
func (it *sliceIterator) Close()               {}

// FilterIterator retains rows for which pred evaluates to Boolean(true).
type FilterIterator struct {
	src     RowIterator
	columns []string
	pred    parser.Expression
	catalog *schema.Catalog
	cur     []types.Value
	err     error
}

func NewFilterIterator(src RowIterator, columns []string, pred parser.Expression, catalog *schema.Catalog) *FilterIterator {
	return &FilterIterator{src: src, columns: columns, pred: pred, catalog: catalog}
}

func (it *FilterIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.src.Next() {
		row := it.src.Value()
		v, err := evaluate(it.pred, &RowContext{Columns: it.columns, Row: row}, it.catalog)
		if err != nil {
			it.err = err
			return false
		}
		if v.Kind() != types.KindBoolean {
			it.err = evalErrorf(NonBoolean, "filter condition produced %s, not boolean", v.Kind())
			return false
		}
		if v.Bool() {
			it.cur = row
			return true
		}
	}
	it.err = it.src.Err()
	return false
}
func (it *FilterIterator) Value() []types.Value { return it.cur }
func (it *FilterIterator) Err() error           { return it.err }
func (it *FilterIterator) Close()               { it.src.Close() }

// NestedLoopJoinIterator implements spec §4.5's join: outer/inner iteration
// determined by kind, null-padding for unmatched outer rows on the
// preserving side, deterministic outer-major/inner-minor order with
// matched rows before the padded fallback for that outer row.
type NestedLoopJoinIterator struct {
	leftCols, rightCols []string
	leftRows, rightRows [][]types.Value
	kind                parser.JoinKind
	condition           parser.Expression
	catalog             *schema.Catalog
	columns             []string
	pending             [][]types.Value
	outerIdx            int
	err                 error
}

func NewNestedLoopJoinIterator(leftCols, rightCols []string, leftRows, rightRows [][]types.Value, kind parser.JoinKind, condition parser.Expression, catalog *schema.Catalog) *NestedLoopJoinIterator {
	columns := make([]string, 0, len(leftCols)+len(rightCols))
	columns = append(columns, leftCols...)
	columns = append(columns, rightCols...)
	return &NestedLoopJoinIterator{
		leftCols: leftCols, rightCols: rightCols,
		leftRows: leftRows, rightRows: rightRows,
		kind: kind, condition: condition, catalog: catalog,
		columns: columns,
	}
}

// outerRows/innerRows: Inner and Left iterate L outer R inner; Right
// iterates R outer L inner.
func (it *NestedLoopJoinIterator) outerRows() [][]types.Value {
	if it.kind == parser.RightJoin {
		return it.rightRows
	}
	return it.leftRows
}
func (it *NestedLoopJoinIterator) innerRows() [][]types.Value {
	if it.kind == parser.RightJoin {
		return it.leftRows
	}
	return it.rightRows
}
func (it *NestedLoopJoinIterator) innerWidth() int {
	if it.kind == parser.RightJoin {
		return len(it.leftCols)
	}
	return len(it.rightCols)
}

// concat places L-values before R-values regardless of which side is
// outer, per spec.
func (it *NestedLoopJoinIterator) concat(outer, inner []types.Value) []types.Value {
	row := make([]types.Value, 0, len(outer)+len(inner))
	if it.kind == parser.RightJoin {
		row = append(row, inner...)
		row = append(row, outer...)
	} else {
		row = append(row, outer...)
		row = append(row, inner...)
	}
	return row
}

func (it *NestedLoopJoinIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if len(it.pending) > 0 {
		return true
	}
	outer := it.outerRows()
	inner := it.innerRows()
	for it.outerIdx < len(outer) {
		outerRow := outer[it.outerIdx]
		matched := false
		for _, innerRow := range inner {
			row := it.concat(outerRow, innerRow)
			v, err := evaluate(it.condition, &RowContext{Columns: it.columns, Row: row}, it.catalog)
			if err != nil {
				it.err = err
				return false
			}
			if v.Kind() != types.KindBoolean {
				it.err = evalErrorf(NonBoolean, "join condition produced %s, not boolean", v.Kind())
				return false
			}
			if v.Bool() {
				it.pending = append(it.pending, row)
				matched = true
			}
		}
		if !matched && (it.kind == parser.LeftJoin || it.kind == parser.RightJoin) {
			it.pending = append(it.pending, it.concat(outerRow, nullsOfWidth(it.innerWidth())))
		}
		it.outerIdx++
		if len(it.pending) > 0 {
			return true
		}
	}
	return false
}

func nullsOfWidth(n int) []types.Value {
	out := make([]types.Value, n)
	for i := range out {
		out[i] = types.NewNull()
	}
	return out
}

func (it *NestedLoopJoinIterator) Value() []types.Value {
	v := it.pending[0]
	it.pending = it.pending[1:]
	return v
}
func (it *NestedLoopJoinIterator) Err() error { return it.err }
func (it *NestedLoopJoinIterator) Close()     {}

// sortIterator materializes src, sorts by key, then yields in order. Stable
// ordering is not required by spec; sort.SliceStable is used only for
// deterministic test output, not as a guarantee.
type sortIterator struct {
	*sliceIterator
}

func NewSortIterator(src RowIterator, columns []string, expr parser.Expression, desc bool, catalog *schema.Catalog) (*sortIterator, error) {
	defer src.Close()
	var rows [][]types.Value
	for src.Next() {
		rows = append(rows, src.Value())
	}
	if err := src.Err(); err != nil {
		return nil, err
	}

	keys := make([]types.Value, len(rows))
	for i, row := range rows {
		v, err := evaluate(expr, &RowContext{Columns: columns, Row: row}, catalog)
		if err != nil {
			return nil, err
		}
		keys[i] = v
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		cmp := types.Compare(keys[idx[i]], keys[idx[j]])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	sorted := make([][]types.Value, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	return &sortIterator{newSliceIterator(sorted)}, nil
}

// LimitIterator yields at most n rows from src.
type LimitIterator struct {
	src   RowIterator
	n     uint32
	count uint32
}

func NewLimitIterator(src RowIterator, n uint32) *LimitIterator {
	return &LimitIterator{src: src, n: n}
}

func (it *LimitIterator) Next() bool {
	if it.count >= it.n {
		return false
	}
	if !it.src.Next() {
		return false
	}
	it.count++
	return true
}
func (it *LimitIterator) Value() []types.Value { return it.src.Value() }
func (it *LimitIterator) Err() error           { return it.src.Err() }
func (it *LimitIterator) Close()               { it.src.Close() }
