// pkg/sql/executor/executor.go
package executor

import (
	"relkernel/pkg/schema"
	"relkernel/pkg/sql/parser"
	"relkernel/pkg/types"
)

// ResultKind identifies which of the four Success variants from spec §6 a
// Result carries.
type ResultKind int

const (
	CreateTableOk ResultKind = iota
	InsertOk
	UpdateOk
	SelectOk
)

// Result is the executor's Success value: CreateTableOk carries nothing,
// InsertOk/UpdateOk carry only a row count, SelectOk carries the projected
// table.
type Result struct {
	Kind    ResultKind
	NumRows uint32
	Columns []string
	Rows    [][]types.Value
}

// Executor runs parsed statements against a Catalog. It holds no state of
// its own; the catalog is the only thing that outlives one Execute call.
type Executor struct {
	catalog *schema.Catalog
}

// New returns an Executor bound to catalog.
func New(catalog *schema.Catalog) *Executor {
	return &Executor{catalog: catalog}
}

// Execute dispatches stmt to its statement-specific handler, per the
// executor contract in spec §6.
func (ex *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.Select:
		return ex.executeSelect(s)
	case *parser.Insert:
		return ex.executeInsert(s)
	case *parser.Update:
		return ex.executeUpdate(s)
	case *parser.CreateTable:
		return ex.executeCreateTable(s)
	default:
		return nil, evalErrorf(TypeMismatch, "unsupported statement %T", stmt)
	}
}

func (ex *Executor) executeSelect(s *parser.Select) (*Result, error) {
	wr, err := runSelect(s, ex.catalog)
	if err != nil {
		return nil, err
	}
	return &Result{Kind: SelectOk, Columns: wr.Columns, Rows: wr.Rows}, nil
}

// runSelect implements the full build/filter/sort/limit/project pipeline of
// spec §4.5–4.6. It is also called directly by the evaluator for IN
// subqueries (§4.3).
func runSelect(s *parser.Select, catalog *schema.Catalog) (*WorkingResult, error) {
	wr, err := buildFrom(s.Table, catalog)
	if err != nil {
		return nil, err
	}

	if s.Where != nil {
		wr, err = applyFilter(wr, s.Where, catalog)
		if err != nil {
			return nil, err
		}
	}

	if s.OrderBy != nil {
		wr, err = applySort(wr, s.OrderBy, catalog)
		if err != nil {
			return nil, err
		}
	}

	if s.Limit != nil {
		wr, err = applyLimit(wr, s.Limit, catalog)
		if err != nil {
			return nil, err
		}
	}

	return project(wr, s.SelectList, catalog)
}

// executeInsert implements spec §4.7.
func (ex *Executor) executeInsert(s *parser.Insert) (*Result, error) {
	if len(s.Columns) != len(s.Values) {
		return nil, ErrColumnCountMismatch
	}

	table, err := ex.catalog.Get(s.Table)
	if err != nil {
		return nil, err
	}

	if !sameColumnSet(s.Columns, table.Columns) {
		return nil, ErrColumnSetMismatch
	}

	row := make([]types.Value, len(table.Columns))
	for i := range row {
		row[i] = types.NewNull()
	}
	for i, colName := range s.Columns {
		idx := table.ColumnIndex(colName)
		row[idx] = s.Values[i].Value
	}

	for i, col := range table.Columns {
		if !row[i].AssignableTo(col.Type) {
			return nil, &IncompatibleDatatypeError{Column: col.Name}
		}
	}

	table.Rows = append(table.Rows, row)
	return &Result{Kind: InsertOk, NumRows: 1}, nil
}

func sameColumnSet(named []string, columns []schema.Column) bool {
	if len(named) != len(columns) {
		return false
	}
	seen := make(map[string]bool, len(named))
	for _, n := range named {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	for _, c := range columns {
		if !seen[c.Name] {
			return false
		}
	}
	return true
}

// executeUpdate implements spec §4.8, including the per-row-atomic Open
// Question decision: a row's assignments are staged in a scratch copy and
// only written back if every assignment in that row passes its datatype
// check. A failing row aborts the whole statement; rows already written
// back by earlier iterations of this same UPDATE are not unwound.
func (ex *Executor) executeUpdate(s *parser.Update) (*Result, error) {
	table, err := ex.catalog.Get(s.Table)
	if err != nil {
		return nil, err
	}

	assignIdx := make([]int, len(s.Assignments))
	for i, a := range s.Assignments {
		idx := table.ColumnIndex(a.Column)
		if idx < 0 {
			return nil, &ColumnError{Name: a.Column}
		}
		assignIdx[i] = idx
	}

	cols := columnNames(table)
	var numUpdated uint32
	for _, row := range table.Rows {
		ctx := &RowContext{Columns: cols, Row: row}
		match, err := evaluate(s.Where, ctx, ex.catalog)
		if err != nil {
			return nil, err
		}
		if match.Kind() != types.KindBoolean {
			return nil, evalErrorf(NonBoolean, "update condition produced %s, not boolean", match.Kind())
		}
		if !match.Bool() {
			continue
		}

		scratch := make([]types.Value, len(row))
		copy(scratch, row)
		for i, a := range s.Assignments {
			col := table.Columns[assignIdx[i]]
			if !a.Value.Value.AssignableTo(col.Type) {
				return nil, &IncompatibleDatatypeError{Column: col.Name}
			}
			scratch[assignIdx[i]] = a.Value.Value
		}
		copy(row, scratch)
		numUpdated++
	}

	return &Result{Kind: UpdateOk, NumRows: numUpdated}, nil
}

// executeCreateTable implements spec §4.9.
func (ex *Executor) executeCreateTable(s *parser.CreateTable) (*Result, error) {
	columns := make([]schema.Column, len(s.Columns))
	for i, c := range s.Columns {
		columns[i] = schema.Column{Name: c.Name, Type: c.Type}
	}
	if err := ex.catalog.CreateTable(s.Name, columns); err != nil {
		return nil, err
	}
	return &Result{Kind: CreateTableOk}, nil
}
