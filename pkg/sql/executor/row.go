// pkg/sql/executor/row.go
package executor

import (
	"strings"

	"relkernel/pkg/types"
)

// WorkingResult is the (columns, rows) pair the relational kernel operates
// on, mirroring a schema.Table but transient and possibly multi-table
// prefix-stamped (spec §4.5).
type WorkingResult struct {
	Columns []string
	Rows    [][]types.Value
}

// RowContext is the (columns, row) pair an expression is evaluated against.
type RowContext struct {
	Columns []string
	Row     []types.Value
}

// prefixColumns returns a copy of names with every entry rewritten to
// "scope.field".
func prefixColumns(scope string, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = scope + "." + n
	}
	return out
}

// splitColumn splits a stored column name into its scope (empty if
// unqualified) and field parts.
func splitColumn(stored string) (scope, field string) {
	if i := strings.LastIndexByte(stored, '.'); i >= 0 {
		return stored[:i], stored[i+1:]
	}
	return "", stored
}

// resolveColumn implements spec §4.4: find the single column index matching
// the requested scope/name, erroring on zero or multiple matches.
func resolveColumn(columns []string, scope, name string) (int, error) {
	match := -1
	count := 0
	for i, stored := range columns {
		storedScope, field := splitColumn(stored)
		if field != name {
			continue
		}
		if scope != "" && storedScope != scope {
			continue
		}
		match = i
		count++
	}
	switch count {
	case 0:
		return -1, &ColumnError{Name: qualifiedName(scope, name)}
	case 1:
		return match, nil
	default:
		return -1, &ColumnError{Name: qualifiedName(scope, name), Ambiguous: true}
	}
}

func qualifiedName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}
