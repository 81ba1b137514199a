// pkg/format/format.go
package format

import (
	"strconv"
	"strings"

	"relkernel/pkg/sql/executor"
)

// Format renders a Result the way the REPL prints it, per spec §6. It is
// the only place a "." display-name strip happens outside the executor
// itself.
func Format(r *executor.Result) string {
	switch r.Kind {
	case executor.CreateTableOk:
		return "CREATED TABLE"
	case executor.InsertOk:
		return "INSERT " + strconv.FormatUint(uint64(r.NumRows), 10)
	case executor.UpdateOk:
		return "UPDATE " + strconv.FormatUint(uint64(r.NumRows), 10)
	case executor.SelectOk:
		return formatSelect(r)
	default:
		return ""
	}
}

func formatSelect(r *executor.Result) string {
	var b strings.Builder
	for i, col := range r.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(displayName(col))
	}
	for _, row := range r.Rows {
		b.WriteByte('\n')
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(v.String())
		}
	}
	return b.String()
}

// displayName returns the portion of a stored column name after its last
// '.', or the whole name if unqualified.
func displayName(stored string) string {
	if i := strings.LastIndexByte(stored, '.'); i >= 0 {
		return stored[i+1:]
	}
	return stored
}
