// pkg/types/value.go
package types

import "fmt"

// Datatype is the closed enumeration of column/value kinds this engine
// understands.
type Datatype int

const (
	Number Datatype = iota
	Text
	Boolean
)

// String returns the surface-syntax spelling of d, as it appears in a
// CREATE TABLE column definition.
func (d Datatype) String() string {
	switch d {
	case Number:
		return "number"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Kind identifies which variant a Value holds. List is produced only by a
// subquery and is never a column datatype.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBoolean
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is the sum type flowing through every row and expression. The zero
// Value is Null.
type Value struct {
	kind    Kind
	numVal  uint32
	textVal string
	boolVal bool
	listVal []Value
}

// NewNull returns the Null value.
func NewNull() Value { return Value{kind: KindNull} }

// NewNumber returns a Number value.
func NewNumber(n uint32) Value { return Value{kind: KindNumber, numVal: n} }

// NewText returns a Text value.
func NewText(s string) Value { return Value{kind: KindText, textVal: s} }

// NewBoolean returns a Boolean value.
func NewBoolean(b bool) Value { return Value{kind: KindBoolean, boolVal: b} }

// NewList returns a List value. Only produced by subquery evaluation.
func NewList(vals []Value) Value {
	cp := make([]Value, len(vals))
	copy(cp, vals)
	return Value{kind: KindList, listVal: cp}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Number() uint32 { return v.numVal }
func (v Value) Text() string   { return v.textVal }
func (v Value) Bool() bool     { return v.boolVal }

// List returns the underlying sequence. A defensive copy is returned.
func (v Value) List() []Value {
	cp := make([]Value, len(v.listVal))
	copy(cp, v.listVal)
	return cp
}

// String renders v the way result formatting requires: null, true/false,
// decimal digits, or the text verbatim.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindNumber:
		return fmt.Sprintf("%d", v.numVal)
	case KindText:
		return v.textVal
	case KindBoolean:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindList:
		return fmt.Sprintf("%v", v.listVal)
	default:
		return ""
	}
}

// AssignableTo reports whether v may be placed into a column of datatype d.
// Null is universally assignable.
func (v Value) AssignableTo(d Datatype) bool {
	if v.kind == KindNull {
		return true
	}
	switch d {
	case Number:
		return v.kind == KindNumber
	case Text:
		return v.kind == KindText
	case Boolean:
		return v.kind == KindBoolean
	default:
		return false
	}
}

// Equal reports structural equality, the rule used by both the `=`
// operator and IN membership. Null equals Null.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindNumber:
		return a.numVal == b.numVal
	case KindText:
		return a.textVal == b.textVal
	case KindBoolean:
		return a.boolVal == b.boolVal
	case KindList:
		if len(a.listVal) != len(b.listVal) {
			return false
		}
		for i := range a.listVal {
			if !Equal(a.listVal[i], b.listVal[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// rankOf orders Kinds for the total order Null < Number < Text < Boolean.
// List never participates in ordering comparisons.
func rankOf(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindNumber:
		return 1
	case KindText:
		return 2
	case KindBoolean:
		return 3
	default:
		return 4
	}
}

// Compare implements the total order from spec §3: Null < Number < Text <
// Boolean, natural ordering within a kind, Null == Null. Returns -1, 0, or
// 1. Used by ORDER BY and by the evaluator's <, <=, >, >= operators; no
// caller compares a List-valued operand.
func Compare(a, b Value) int {
	ra, rb := rankOf(a.kind), rankOf(b.kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindNumber:
		switch {
		case a.numVal < b.numVal:
			return -1
		case a.numVal > b.numVal:
			return 1
		default:
			return 0
		}
	case KindText:
		switch {
		case a.textVal < b.textVal:
			return -1
		case a.textVal > b.textVal:
			return 1
		default:
			return 0
		}
	case KindBoolean:
		switch {
		case !a.boolVal && b.boolVal:
			return -1
		case a.boolVal && !b.boolVal:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
