package lexer

import "testing"

func TestSimpleTokens(t *testing.T) {
	input := "+-*=<>(),;."
	expected := []TokenType{PLUS, MINUS, STAR, EQ, LT, GT, LPAREN, RPAREN, COMMA, SEMICOLON, DOT, EOF}
	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("token[%d]: type = %v, want %v", i, tok.Type, want)
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	input := "<= >="
	expected := []struct {
		typ     TokenType
		literal string
	}{
		{LTE, "<="},
		{GTE, ">="},
		{EOF, ""},
	}
	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ || tok.Literal != exp.literal {
			t.Errorf("token[%d] = %v %q, want %v %q", i, tok.Type, tok.Literal, exp.typ, exp.literal)
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	input := "select Select SELECT"
	l := New(input)
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		if tok.Type != SELECT {
			t.Errorf("token[%d]: type = %v, want SELECT", i, tok.Type)
		}
	}
}

func TestIdentifierPreservesCase(t *testing.T) {
	l := New("UserName")
	tok := l.NextToken()
	if tok.Type != IDENT {
		t.Fatalf("type = %v, want IDENT", tok.Type)
	}
	if tok.Literal != "UserName" {
		t.Errorf("literal = %q, want %q", tok.Literal, "UserName")
	}
}

func TestStringLiteral(t *testing.T) {
	l := New("'hello world'")
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("type = %v, want STRING", tok.Type)
	}
	if tok.Literal != "hello world" {
		t.Errorf("literal = %q, want %q", tok.Literal, "hello world")
	}
}

func TestIntegerLiteral(t *testing.T) {
	l := New("12345")
	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "12345" {
		t.Errorf("got %v %q, want INT \"12345\"", tok.Type, tok.Literal)
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("select  id")
	tok := l.NextToken()
	if tok.Pos != 0 {
		t.Errorf("SELECT pos = %d, want 0", tok.Pos)
	}
	tok = l.NextToken()
	if tok.Pos != 8 {
		t.Errorf("id pos = %d, want 8", tok.Pos)
	}
}

func TestFullStatement(t *testing.T) {
	input := "select count(*) from users where age >= 25;"
	expected := []TokenType{
		SELECT, COUNT, LPAREN, STAR, RPAREN, FROM, IDENT, WHERE, IDENT, GTE, INT, SEMICOLON, EOF,
	}
	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("token[%d]: type = %v, want %v (literal %q)", i, tok.Type, want, tok.Literal)
		}
	}
}
