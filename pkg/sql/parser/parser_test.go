package parser

import (
	"testing"

	"relkernel/pkg/types"
)

func TestParseCreateTable(t *testing.T) {
	stmts, err := ParseQueries("create table users (id number, name text, active boolean);")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	ct, ok := stmts[0].(*CreateTable)
	if !ok {
		t.Fatalf("got %T, want *CreateTable", stmts[0])
	}
	if ct.Name != "users" {
		t.Errorf("Name = %q, want users", ct.Name)
	}
	want := []ColumnDef{
		{Name: "id", Type: types.Number},
		{Name: "name", Type: types.Text},
		{Name: "active", Type: types.Boolean},
	}
	if len(ct.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d", len(ct.Columns), len(want))
	}
	for i, w := range want {
		if ct.Columns[i] != w {
			t.Errorf("column[%d] = %+v, want %+v", i, ct.Columns[i], w)
		}
	}
}

func TestParseInsert(t *testing.T) {
	stmts, err := ParseQueries("insert into users (id, name) values (1, 'alice');")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	ins, ok := stmts[0].(*Insert)
	if !ok {
		t.Fatalf("got %T, want *Insert", stmts[0])
	}
	if ins.Table != "users" {
		t.Errorf("Table = %q, want users", ins.Table)
	}
	if len(ins.Columns) != 2 || ins.Columns[0] != "id" || ins.Columns[1] != "name" {
		t.Errorf("Columns = %v, want [id name]", ins.Columns)
	}
	if ins.Values[0].Value.Number() != 1 {
		t.Errorf("Values[0] = %v, want Number(1)", ins.Values[0].Value)
	}
	if ins.Values[1].Value.Text() != "alice" {
		t.Errorf("Values[1] = %v, want Text(alice)", ins.Values[1].Value)
	}
}

func TestParseSelectStar(t *testing.T) {
	stmts, err := ParseQueries("select * from users;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	sel, ok := stmts[0].(*Select)
	if !ok {
		t.Fatalf("got %T, want *Select", stmts[0])
	}
	if len(sel.SelectList) != 1 {
		t.Fatalf("SelectList len = %d, want 1", len(sel.SelectList))
	}
	col, ok := sel.SelectList[0].(*ColumnIdentifier)
	if !ok || !col.Star {
		t.Errorf("SelectList[0] = %+v, want star ColumnIdentifier", sel.SelectList[0])
	}
	if sel.Table.Root.Name != "users" {
		t.Errorf("Table.Root.Name = %q, want users", sel.Table.Root.Name)
	}
}

func TestParseSelectWithAlias(t *testing.T) {
	stmts, err := ParseQueries("select u.email from users u;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	sel := stmts[0].(*Select)
	if sel.Table.Root.Alias != "u" {
		t.Errorf("Alias = %q, want u", sel.Table.Root.Alias)
	}
	if sel.Table.Root.Scope() != "u" {
		t.Errorf("Scope() = %q, want u", sel.Table.Root.Scope())
	}
	col := sel.SelectList[0].(*ColumnIdentifier)
	if col.Scope != "u" || col.Name != "email" {
		t.Errorf("got Scope=%q Name=%q, want u/email", col.Scope, col.Name)
	}
}

func TestParseJoinAndWhereAndOrderAndLimit(t *testing.T) {
	stmts, err := ParseQueries(
		"select u.email from users u left join orders o on u.id = o.user_id " +
			"where u.active and u.age >= 18 order by u.age desc limit 10;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	sel := stmts[0].(*Select)
	if len(sel.Table.Joins) != 1 {
		t.Fatalf("Joins len = %d, want 1", len(sel.Table.Joins))
	}
	j := sel.Table.Joins[0]
	if j.Kind != LeftJoin {
		t.Errorf("Kind = %v, want LeftJoin", j.Kind)
	}
	if sel.Where == nil {
		t.Fatal("Where is nil")
	}
	if sel.OrderBy == nil || sel.OrderBy.Direction != Desc {
		t.Fatalf("OrderBy = %+v, want Desc", sel.OrderBy)
	}
	if sel.Limit == nil {
		t.Fatal("Limit is nil")
	}
}

func TestParseCountStar(t *testing.T) {
	stmts, err := ParseQueries("select count(*) from users;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	sel := stmts[0].(*Select)
	if _, ok := sel.SelectList[0].(*CountStar); !ok {
		t.Errorf("SelectList[0] = %T, want *CountStar", sel.SelectList[0])
	}
}

func TestParseInSubquery(t *testing.T) {
	stmts, err := ParseQueries("select id from users where id in (select user_id from orders);")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	sel := stmts[0].(*Select)
	bin, ok := sel.Where.(*BinaryOp)
	if !ok || bin.Op != OpIn {
		t.Fatalf("Where = %+v, want BinaryOp{Op: OpIn}", sel.Where)
	}
	if _, ok := bin.Right.(*Subquery); !ok {
		t.Errorf("Right = %T, want *Subquery", bin.Right)
	}
}

func TestParseUpdate(t *testing.T) {
	stmts, err := ParseQueries("update users set age = 30, active = true where id = 1;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	upd := stmts[0].(*Update)
	if upd.Table != "users" {
		t.Errorf("Table = %q, want users", upd.Table)
	}
	if len(upd.Assignments) != 2 {
		t.Fatalf("Assignments len = %d, want 2", len(upd.Assignments))
	}
	if upd.Assignments[0].Column != "age" || upd.Assignments[0].Value.Value.Number() != 30 {
		t.Errorf("Assignments[0] = %+v", upd.Assignments[0])
	}
}

func TestPrecedenceClimbing(t *testing.T) {
	// `1 + 2 = 3` should parse as `(1 + 2) = 3`, since + binds tighter than =.
	stmts, err := ParseQueries("select * from t where 1 + 2 = 3;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	sel := stmts[0].(*Select)
	top, ok := sel.Where.(*BinaryOp)
	if !ok || top.Op != OpEq {
		t.Fatalf("top = %+v, want BinaryOp{Op: OpEq}", sel.Where)
	}
	left, ok := top.Left.(*BinaryOp)
	if !ok || left.Op != OpPlus {
		t.Fatalf("Left = %+v, want BinaryOp{Op: OpPlus}", top.Left)
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := ParseQueries("select * fromm users;")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
	if pe.Pos == 0 {
		t.Error("ParseError.Pos should point past the SELECT keyword")
	}
}

func TestParseMultipleStatements(t *testing.T) {
	stmts, err := ParseQueries("create table t (id number); insert into t (id) values (1); select * from t;")
	if err != nil {
		t.Fatalf("ParseQueries error: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}
}

func TestOverflowingIntegerLiteralIsParseError(t *testing.T) {
	_, err := ParseQueries("insert into t (id) values (99999999999);")
	if err == nil {
		t.Fatal("expected a parse error for an out-of-range integer literal")
	}
}
