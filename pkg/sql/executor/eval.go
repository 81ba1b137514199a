// pkg/sql/executor/eval.go
package executor

import (
	"relkernel/pkg/schema"
	"relkernel/pkg/sql/parser"
	"relkernel/pkg/types"
)

// evaluate implements spec §4.3: evaluate(expr, row_ctx?, catalog?) -> Value.
// ctx may be nil for expressions known to need no row (e.g. a LIMIT bound).
func evaluate(expr parser.Expression, ctx *RowContext, catalog *schema.Catalog) (types.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil

	case *parser.ColumnIdentifier:
		if e.Star {
			return types.Value{}, evalErrorf(TypeMismatch, "star cannot be evaluated as a value")
		}
		if ctx == nil {
			return types.Value{}, evalErrorf(NullReference, "column %q referenced with no row context", e.Name)
		}
		idx, err := resolveColumn(ctx.Columns, e.Scope, e.Name)
		if err != nil {
			return types.Value{}, err
		}
		return ctx.Row[idx], nil

	case *parser.CountStar:
		return types.Value{}, evalErrorf(TypeMismatch, "count(*) is only valid in a select list")

	case *parser.Subquery:
		result, err := runSelect(e.Query, catalog)
		if err != nil {
			return types.Value{}, err
		}
		if len(result.Columns) != 1 {
			return types.Value{}, evalErrorf(SubqueryShape, "subquery must project exactly one column, got %d", len(result.Columns))
		}
		vals := make([]types.Value, len(result.Rows))
		for i, row := range result.Rows {
			vals[i] = row[0]
		}
		return types.NewList(vals), nil

	case *parser.BinaryOp:
		return evaluateBinaryOp(e, ctx, catalog)

	default:
		return types.Value{}, evalErrorf(TypeMismatch, "unsupported expression node %T", expr)
	}
}

func evaluateBinaryOp(e *parser.BinaryOp, ctx *RowContext, catalog *schema.Catalog) (types.Value, error) {
	left, err := evaluate(e.Left, ctx, catalog)
	if err != nil {
		return types.Value{}, err
	}
	right, err := evaluate(e.Right, ctx, catalog)
	if err != nil {
		return types.Value{}, err
	}

	switch e.Op {
	case parser.OpEq:
		return types.NewBoolean(types.Equal(left, right)), nil

	case parser.OpLt, parser.OpLte, parser.OpGt, parser.OpGte:
		return compareOp(e.Op, left, right)

	case parser.OpAnd, parser.OpOr:
		if left.Kind() != types.KindBoolean || right.Kind() != types.KindBoolean {
			return types.Value{}, evalErrorf(TypeMismatch, "%s requires boolean operands, got %s and %s", e.Op, left.Kind(), right.Kind())
		}
		if e.Op == parser.OpAnd {
			return types.NewBoolean(left.Bool() && right.Bool()), nil
		}
		return types.NewBoolean(left.Bool() || right.Bool()), nil

	case parser.OpIn:
		if right.Kind() != types.KindList {
			return types.Value{}, evalErrorf(TypeMismatch, "IN requires a list on the right, got %s", right.Kind())
		}
		for _, v := range right.List() {
			if types.Equal(left, v) {
				return types.NewBoolean(true), nil
			}
		}
		return types.NewBoolean(false), nil

	case parser.OpPlus, parser.OpMinus:
		return arithmeticOp(e.Op, left, right)

	default:
		return types.Value{}, evalErrorf(TypeMismatch, "unsupported operator %s", e.Op)
	}
}

func compareOp(op parser.BinOp, left, right types.Value) (types.Value, error) {
	var cmp int
	switch {
	case left.Kind() == types.KindNumber && right.Kind() == types.KindNumber:
		cmp = types.Compare(left, right)
	case left.Kind() == types.KindText && right.Kind() == types.KindText:
		cmp = types.Compare(left, right)
	default:
		return types.Value{}, evalErrorf(TypeMismatch, "%s requires matching number or text operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case parser.OpLt:
		return types.NewBoolean(cmp < 0), nil
	case parser.OpLte:
		return types.NewBoolean(cmp <= 0), nil
	case parser.OpGt:
		return types.NewBoolean(cmp > 0), nil
	default: // OpGte
		return types.NewBoolean(cmp >= 0), nil
	}
}

const maxUint32 = 1<<32 - 1

func arithmeticOp(op parser.BinOp, left, right types.Value) (types.Value, error) {
	if left.Kind() != types.KindNumber || right.Kind() != types.KindNumber {
		return types.Value{}, evalErrorf(TypeMismatch, "%s requires number operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	a, b := left.Number(), right.Number()
	if op == parser.OpPlus {
		sum := uint64(a) + uint64(b)
		if sum > maxUint32 {
			return types.Value{}, evalErrorf(Overflow, "%d + %d overflows u32", a, b)
		}
		return types.NewNumber(uint32(sum)), nil
	}
	if a < b {
		return types.Value{}, evalErrorf(Overflow, "%d - %d underflows u32", a, b)
	}
	return types.NewNumber(a - b), nil
}
