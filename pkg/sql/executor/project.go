// pkg/sql/executor/project.go
package executor

import (
	"relkernel/pkg/schema"
	"relkernel/pkg/sql/parser"
	"relkernel/pkg/types"
)

// colSlot says where an output column's value comes from: a direct copy of
// an input column (star expansion or a bare ColumnIdentifier), or a fresh
// evaluation of a select-list expression.
type colSlot struct {
	fromInput bool
	index     int // input column index, when fromInput
	exprIdx   int // selectList index, when !fromInput
}

// projectionPlan computes output column names and their value sources, per
// spec §4.6.
func projectionPlan(inputCols []string, selectList []parser.Expression) ([]string, []colSlot, error) {
	var outCols []string
	var slots []colSlot

	for exprIdx, expr := range selectList {
		switch e := expr.(type) {
		case *parser.ColumnIdentifier:
			if e.Star {
				for i, stored := range inputCols {
					scope, _ := splitColumn(stored)
					if e.Scope != "" && scope != e.Scope {
						continue
					}
					outCols = append(outCols, stored)
					slots = append(slots, colSlot{fromInput: true, index: i})
				}
				continue
			}
			idx, err := resolveColumn(inputCols, e.Scope, e.Name)
			if err != nil {
				return nil, nil, err
			}
			outCols = append(outCols, inputCols[idx])
			slots = append(slots, colSlot{fromInput: true, index: idx})

		case *parser.Literal:
			outCols = append(outCols, "?column?")
			slots = append(slots, colSlot{fromInput: false, exprIdx: exprIdx})

		default: // *parser.BinaryOp and anything else evaluable
			outCols = append(outCols, "?column?")
			slots = append(slots, colSlot{fromInput: false, exprIdx: exprIdx})
		}
	}

	return outCols, slots, nil
}

// project implements spec §4.6: count(*) short-circuits to a single
// {count: Number} row; otherwise each select-list expression contributes
// zero or more output columns, evaluated per input row.
func project(wr *WorkingResult, selectList []parser.Expression, catalog *schema.Catalog) (*WorkingResult, error) {
	if len(selectList) > 0 {
		if _, ok := selectList[0].(*parser.CountStar); ok {
			return &WorkingResult{
				Columns: []string{"count"},
				Rows:    [][]types.Value{{types.NewNumber(uint32(len(wr.Rows)))}},
			}, nil
		}
	}

	outCols, slots, err := projectionPlan(wr.Columns, selectList)
	if err != nil {
		return nil, err
	}

	outRows := make([][]types.Value, len(wr.Rows))
	for i, row := range wr.Rows {
		ctx := &RowContext{Columns: wr.Columns, Row: row}
		outRow := make([]types.Value, len(slots))
		for j, slot := range slots {
			if slot.fromInput {
				outRow[j] = row[slot.index]
				continue
			}
			v, err := evaluate(selectList[slot.exprIdx], ctx, catalog)
			if err != nil {
				return nil, err
			}
			outRow[j] = v
		}
		outRows[i] = outRow
	}

	return &WorkingResult{Columns: outCols, Rows: outRows}, nil
}
