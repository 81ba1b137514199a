package types

import "testing"

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null equals null", NewNull(), NewNull(), true},
		{"numbers equal", NewNumber(5), NewNumber(5), true},
		{"numbers differ", NewNumber(5), NewNumber(6), false},
		{"text equal", NewText("a"), NewText("a"), true},
		{"text differs", NewText("a"), NewText("b"), false},
		{"booleans equal", NewBoolean(true), NewBoolean(true), true},
		{"kind mismatch", NewNumber(1), NewText("1"), false},
		{"null vs number", NewNull(), NewNumber(0), false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("%s: Equal() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	vals := []Value{NewNull(), NewNumber(1), NewText("a"), NewBoolean(false)}
	for i := 0; i < len(vals); i++ {
		for j := i + 1; j < len(vals); j++ {
			if Compare(vals[i], vals[j]) >= 0 {
				t.Errorf("Compare(%v, %v) should be negative (null < number < text < boolean)", vals[i], vals[j])
			}
		}
	}
}

func TestCompareWithinKind(t *testing.T) {
	if Compare(NewNumber(1), NewNumber(2)) >= 0 {
		t.Error("1 should compare less than 2")
	}
	if Compare(NewText("a"), NewText("b")) >= 0 {
		t.Error("\"a\" should compare less than \"b\"")
	}
	if Compare(NewBoolean(false), NewBoolean(true)) >= 0 {
		t.Error("false should compare less than true")
	}
	if Compare(NewNull(), NewNull()) != 0 {
		t.Error("null should compare equal to null")
	}
}

func TestAssignableTo(t *testing.T) {
	if !NewNull().AssignableTo(Number) {
		t.Error("null should be assignable to any datatype")
	}
	if !NewNumber(1).AssignableTo(Number) {
		t.Error("number should be assignable to Number")
	}
	if NewNumber(1).AssignableTo(Text) {
		t.Error("number should not be assignable to Text")
	}
	if NewText("x").AssignableTo(Boolean) {
		t.Error("text should not be assignable to Boolean")
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NewNull(), "null"},
		{NewNumber(42), "42"},
		{NewText("hi"), "hi"},
		{NewBoolean(true), "true"},
		{NewBoolean(false), "false"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestNewListCopies(t *testing.T) {
	src := []Value{NewNumber(1), NewNumber(2)}
	v := NewList(src)
	src[0] = NewNumber(99)
	if v.List()[0].Number() != 1 {
		t.Error("NewList should copy its input, not alias it")
	}
}
