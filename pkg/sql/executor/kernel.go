// pkg/sql/executor/kernel.go
package executor

import (
	"relkernel/pkg/schema"
	"relkernel/pkg/sql/parser"
	"relkernel/pkg/types"
)

// buildFrom implements the build phase of spec §4.5: root table first,
// prefix-stamped by its scope, then each join folded in left to right.
func buildFrom(te parser.TableExpression, catalog *schema.Catalog) (*WorkingResult, error) {
	rootTable, err := catalog.Get(te.Root.Name)
	if err != nil {
		return nil, err
	}
	result := &WorkingResult{
		Columns: prefixColumns(te.Root.Scope(), columnNames(rootTable)),
		Rows:    cloneRows(rootTable.Rows),
	}

	for _, j := range te.Joins {
		joined, err := catalog.Get(j.Table.Name)
		if err != nil {
			return nil, err
		}
		rightCols := prefixColumns(j.Table.Scope(), columnNames(joined))

		it := NewNestedLoopJoinIterator(result.Columns, rightCols, result.Rows, cloneRows(joined.Rows), j.Kind, j.Condition, catalog)
		var rows [][]types.Value
		for it.Next() {
			rows = append(rows, it.Value())
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
		result = &WorkingResult{Columns: it.columns, Rows: rows}
	}

	return result, nil
}

func columnNames(t *schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func cloneRows(rows [][]types.Value) [][]types.Value {
	out := make([][]types.Value, len(rows))
	for i, r := range rows {
		cp := make([]types.Value, len(r))
		copy(cp, r)
		out[i] = cp
	}
	return out
}

// applyFilter drops rows failing pred, per spec §4.5.
func applyFilter(wr *WorkingResult, pred parser.Expression, catalog *schema.Catalog) (*WorkingResult, error) {
	it := NewFilterIterator(newSliceIterator(wr.Rows), wr.Columns, pred, catalog)
	var rows [][]types.Value
	for it.Next() {
		rows = append(rows, it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return &WorkingResult{Columns: wr.Columns, Rows: rows}, nil
}

// applySort orders rows by expr, per spec §4.5.
func applySort(wr *WorkingResult, ob *parser.OrderBy, catalog *schema.Catalog) (*WorkingResult, error) {
	it, err := NewSortIterator(newSliceIterator(wr.Rows), wr.Columns, ob.Expr, ob.Direction == parser.Desc, catalog)
	if err != nil {
		return nil, err
	}
	var rows [][]types.Value
	for it.Next() {
		rows = append(rows, it.Value())
	}
	return &WorkingResult{Columns: wr.Columns, Rows: rows}, nil
}

// applyLimit evaluates expr with no row context and keeps the first n rows,
// per spec §4.5 and the Open Question decision narrowing it to a constant.
func applyLimit(wr *WorkingResult, expr parser.Expression, catalog *schema.Catalog) (*WorkingResult, error) {
	v, err := evaluate(expr, nil, catalog)
	if err != nil {
		return nil, err
	}
	if v.Kind() != types.KindNumber {
		return nil, evalErrorf(TypeMismatch, "limit requires a number, got %s", v.Kind())
	}
	it := NewLimitIterator(newSliceIterator(wr.Rows), v.Number())
	var rows [][]types.Value
	for it.Next() {
		rows = append(rows, it.Value())
	}
	return &WorkingResult{Columns: wr.Columns, Rows: rows}, nil
}
