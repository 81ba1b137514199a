// pkg/sql/parser/parser.go
package parser

import (
	"fmt"
	"strconv"

	"relkernel/pkg/sql/lexer"
	"relkernel/pkg/types"
)

// Precedence classes, lowest to highest, per spec: AND/OR/IN bind loosest,
// then the comparison operators, then +/-. Parentheses override.
const (
	LOWEST = iota
	precAndOrIn
	precComparison
	precAdditive
)

func precedenceOf(t lexer.TokenType) int {
	switch t {
	case lexer.AND, lexer.OR, lexer.IN_KW:
		return precAndOrIn
	case lexer.EQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
		return precComparison
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	default:
		return LOWEST
	}
}

// ParseError is returned for the first ill-formed token or rule
// encountered. Pos is a byte offset into the original query text.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

// Parser turns a token stream into a Statement tree.
type Parser struct {
	l    *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over input.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseQueries parses a semicolon-separated batch of queries in source
// order. It is the module's external parse contract.
func ParseQueries(input string) ([]Statement, error) {
	return New(input).Parse()
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// expectPeek requires the next token to have type t (naming it desc in the
// error message) and, if so, advances onto it.
func (p *Parser) expectPeek(t lexer.TokenType, desc string) error {
	if p.peek.Type != t {
		return p.errorf(p.peek.Pos, "expected %s, got %q", desc, p.peek.Literal)
	}
	p.nextToken()
	return nil
}

// Parse parses every query in the input, in source order.
func (p *Parser) Parse() ([]Statement, error) {
	var stmts []Statement
	for p.cur.Type == lexer.SEMICOLON {
		p.nextToken()
	}
	for p.cur.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if p.cur.Type == lexer.SEMICOLON {
			for p.cur.Type == lexer.SEMICOLON {
				p.nextToken()
			}
			continue
		}
		if p.cur.Type != lexer.EOF {
			return nil, p.errorf(p.cur.Pos, "expected ';' or end of input, got %q", p.cur.Literal)
		}
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	switch p.cur.Type {
	case lexer.SELECT:
		return p.parseSelect()
	case lexer.INSERT:
		return p.parseInsert()
	case lexer.CREATE:
		return p.parseCreateTable()
	case lexer.UPDATE:
		return p.parseUpdate()
	default:
		return nil, p.errorf(p.cur.Pos, "expected SELECT, INSERT, CREATE, or UPDATE, got %q", p.cur.Literal)
	}
}

// --- CREATE TABLE ---

func (p *Parser) parseCreateTable() (Statement, error) {
	if err := p.expectPeek(lexer.TABLE, "TABLE"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.IDENT, "table name"); err != nil {
		return nil, err
	}
	stmt := &CreateTable{Name: p.cur.Literal}

	if err := p.expectPeek(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	p.nextToken() // move to first column name

	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if p.peek.Type == lexer.COMMA {
			p.nextToken() // on comma
			p.nextToken() // move to next column name
			continue
		}
		break
	}

	if err := p.expectPeek(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	p.nextToken()
	return stmt, nil
}

func (p *Parser) parseColumnDef() (ColumnDef, error) {
	if p.cur.Type != lexer.IDENT {
		return ColumnDef{}, p.errorf(p.cur.Pos, "expected column name, got %q", p.cur.Literal)
	}
	col := ColumnDef{Name: p.cur.Literal}

	switch p.peek.Type {
	case lexer.NUMBER_TYPE:
		col.Type = types.Number
	case lexer.TEXT_TYPE:
		col.Type = types.Text
	case lexer.BOOLEAN_TYPE:
		col.Type = types.Boolean
	default:
		return ColumnDef{}, p.errorf(p.peek.Pos, "expected a datatype (number, text, boolean), got %q", p.peek.Literal)
	}
	p.nextToken()
	return col, nil
}

// --- INSERT ---

func (p *Parser) parseInsert() (Statement, error) {
	if err := p.expectPeek(lexer.INTO, "INTO"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.IDENT, "table name"); err != nil {
		return nil, err
	}
	stmt := &Insert{Table: p.cur.Literal}

	if err := p.expectPeek(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cols, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	stmt.Columns = cols
	if err := p.expectPeek(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}

	if err := p.expectPeek(lexer.VALUES, "VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	p.nextToken() // move to first value

	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, lit)

		if p.peek.Type == lexer.COMMA {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}

	if err := p.expectPeek(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	p.nextToken()
	return stmt, nil
}

// parseIdentList parses a comma-separated list of identifiers. p.cur must
// be the '(' preceding the list; on return p.cur is the last identifier.
func (p *Parser) parseIdentList() ([]string, error) {
	var names []string
	p.nextToken() // move past '('
	for {
		if p.cur.Type != lexer.IDENT {
			return nil, p.errorf(p.cur.Pos, "expected identifier, got %q", p.cur.Literal)
		}
		names = append(names, p.cur.Literal)
		if p.peek.Type == lexer.COMMA {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return names, nil
}

// --- UPDATE ---

func (p *Parser) parseUpdate() (Statement, error) {
	if err := p.expectPeek(lexer.IDENT, "table name"); err != nil {
		return nil, err
	}
	stmt := &Update{Table: p.cur.Literal}

	if err := p.expectPeek(lexer.SET, "SET"); err != nil {
		return nil, err
	}
	p.nextToken() // move to first assignment's column name

	for {
		if p.cur.Type != lexer.IDENT {
			return nil, p.errorf(p.cur.Pos, "expected column name, got %q", p.cur.Literal)
		}
		col := p.cur.Literal
		if err := p.expectPeek(lexer.EQ, "'='"); err != nil {
			return nil, err
		}
		p.nextToken() // move to value literal
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: lit})

		if p.peek.Type == lexer.COMMA {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}

	if err := p.expectPeek(lexer.WHERE, "WHERE"); err != nil {
		return nil, err
	}
	p.nextToken() // move to where expression
	where, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Where = where
	p.nextToken()
	return stmt, nil
}

// --- SELECT ---

func (p *Parser) parseSelect() (Statement, error) {
	stmt, err := p.parseSelectBody()
	if err != nil {
		return nil, err
	}
	p.nextToken()
	return stmt, nil
}

// parseSelectBody parses a SELECT statement's body. p.cur must be SELECT;
// on return p.cur is the last token of the select statement consumed.
func (p *Parser) parseSelectBody() (*Select, error) {
	p.nextToken() // move past SELECT
	stmt := &Select{}

	list, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	stmt.SelectList = list

	if err := p.expectPeek(lexer.FROM, "FROM"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.IDENT, "table name"); err != nil {
		return nil, err
	}
	root, err := p.parseTableIdentifier()
	if err != nil {
		return nil, err
	}
	tableExpr := TableExpression{Root: root}

	for isJoinStart(p.peek.Type) {
		p.nextToken() // move onto INNER/LEFT/RIGHT/JOIN
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		tableExpr.Joins = append(tableExpr.Joins, join)
	}
	stmt.Table = tableExpr

	if p.peek.Type == lexer.WHERE {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.peek.Type == lexer.ORDER {
		p.nextToken()
		if err := p.expectPeek(lexer.BY, "BY"); err != nil {
			return nil, err
		}
		p.nextToken()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		ob := &OrderBy{Expr: expr, Direction: Asc}
		if p.peek.Type == lexer.ASC {
			p.nextToken()
		} else if p.peek.Type == lexer.DESC {
			p.nextToken()
			ob.Direction = Desc
		}
		stmt.OrderBy = ob
	}

	if p.peek.Type == lexer.LIMIT {
		p.nextToken()
		p.nextToken()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Limit = expr
	}

	return stmt, nil
}

func (p *Parser) parseSelectList() ([]Expression, error) {
	var list []Expression
	for {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if p.peek.Type == lexer.COMMA {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return list, nil
}

// parseTableIdentifier reads a table name and its optional alias (either
// `name alias` or `name AS alias`). p.cur must be the table name IDENT;
// on return p.cur is the last token consumed (name or alias).
func (p *Parser) parseTableIdentifier() (TableIdentifier, error) {
	ti := TableIdentifier{Name: p.cur.Literal}
	if p.peek.Type == lexer.AS_KW {
		p.nextToken()
		if err := p.expectPeek(lexer.IDENT, "alias"); err != nil {
			return ti, err
		}
		ti.Alias = p.cur.Literal
	} else if p.peek.Type == lexer.IDENT {
		p.nextToken()
		ti.Alias = p.cur.Literal
	}
	return ti, nil
}

func isJoinStart(t lexer.TokenType) bool {
	return t == lexer.JOIN || t == lexer.INNER || t == lexer.LEFT || t == lexer.RIGHT
}

// parseJoin parses one join clause. p.cur must be INNER/LEFT/RIGHT/JOIN.
func (p *Parser) parseJoin() (Join, error) {
	kind := InnerJoin
	switch p.cur.Type {
	case lexer.INNER:
		if err := p.expectPeek(lexer.JOIN, "JOIN"); err != nil {
			return Join{}, err
		}
	case lexer.LEFT:
		kind = LeftJoin
		if err := p.expectPeek(lexer.JOIN, "JOIN"); err != nil {
			return Join{}, err
		}
	case lexer.RIGHT:
		kind = RightJoin
		if err := p.expectPeek(lexer.JOIN, "JOIN"); err != nil {
			return Join{}, err
		}
	case lexer.JOIN:
		// bare JOIN defaults to INNER
	default:
		return Join{}, p.errorf(p.cur.Pos, "expected JOIN, INNER, LEFT, or RIGHT, got %q", p.cur.Literal)
	}

	if err := p.expectPeek(lexer.IDENT, "table name"); err != nil {
		return Join{}, err
	}
	table, err := p.parseTableIdentifier()
	if err != nil {
		return Join{}, err
	}

	if err := p.expectPeek(lexer.ON, "ON"); err != nil {
		return Join{}, err
	}
	p.nextToken()
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return Join{}, err
	}

	return Join{Kind: kind, Table: table, Condition: cond}, nil
}

// --- Expressions ---

func (p *Parser) parseExpression(precedence int) (Expression, error) {
	left, err := p.parsePrefixExpression()
	if err != nil {
		return nil, err
	}

	for precedence < precedenceOf(p.peek.Type) {
		p.nextToken()
		left, err = p.parseInfixExpression(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parsePrefixExpression() (Expression, error) {
	switch p.cur.Type {
	case lexer.INT:
		return p.literalFromInt()
	case lexer.STRING:
		return &Literal{Value: types.NewText(p.cur.Literal)}, nil
	case lexer.TRUE_KW:
		return &Literal{Value: types.NewBoolean(true)}, nil
	case lexer.FALSE_KW:
		return &Literal{Value: types.NewBoolean(false)}, nil
	case lexer.STAR:
		return &ColumnIdentifier{Star: true}, nil
	case lexer.COUNT:
		return p.parseCountStar()
	case lexer.IDENT:
		return p.parseColumnIdentifier()
	case lexer.LPAREN:
		p.nextToken()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf(p.cur.Pos, "unexpected token in expression: %q", p.cur.Literal)
	}
}

func (p *Parser) parseColumnIdentifier() (Expression, error) {
	first := p.cur.Literal
	if p.peek.Type == lexer.DOT {
		p.nextToken() // on '.'
		if p.peek.Type == lexer.STAR {
			p.nextToken()
			return &ColumnIdentifier{Scope: first, Star: true}, nil
		}
		if err := p.expectPeek(lexer.IDENT, "column name"); err != nil {
			return nil, err
		}
		return &ColumnIdentifier{Scope: first, Name: p.cur.Literal}, nil
	}
	return &ColumnIdentifier{Name: first}, nil
}

func (p *Parser) parseCountStar() (Expression, error) {
	if err := p.expectPeek(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.STAR, "'*'"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return &CountStar{}, nil
}

func (p *Parser) parseInfixExpression(left Expression) (Expression, error) {
	switch p.cur.Type {
	case lexer.IN_KW:
		return p.parseInExpression(left)
	case lexer.EQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE, lexer.AND, lexer.OR, lexer.PLUS, lexer.MINUS:
		op := binOpFor(p.cur.Type)
		prec := precedenceOf(p.cur.Type)
		p.nextToken()
		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: op, Left: left, Right: right}, nil
	default:
		return nil, p.errorf(p.cur.Pos, "unexpected operator %q", p.cur.Literal)
	}
}

func binOpFor(t lexer.TokenType) BinOp {
	switch t {
	case lexer.EQ:
		return OpEq
	case lexer.LT:
		return OpLt
	case lexer.LTE:
		return OpLte
	case lexer.GT:
		return OpGt
	case lexer.GTE:
		return OpGte
	case lexer.AND:
		return OpAnd
	case lexer.OR:
		return OpOr
	case lexer.PLUS:
		return OpPlus
	case lexer.MINUS:
		return OpMinus
	default:
		return OpEq
	}
}

// parseInExpression parses the right side of IN, which must be a
// parenthesized SELECT.
func (p *Parser) parseInExpression(left Expression) (Expression, error) {
	if err := p.expectPeek(lexer.LPAREN, "'(' starting a subquery"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.SELECT, "SELECT"); err != nil {
		return nil, err
	}
	sub, err := p.parseSelectBody()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.RPAREN, "')' closing subquery"); err != nil {
		return nil, err
	}
	return &BinaryOp{Op: OpIn, Left: left, Right: &Subquery{Query: sub}}, nil
}

// --- Literals ---

func (p *Parser) parseLiteral() (*Literal, error) {
	switch p.cur.Type {
	case lexer.INT:
		expr, err := p.literalFromInt()
		if err != nil {
			return nil, err
		}
		return expr.(*Literal), nil
	case lexer.STRING:
		return &Literal{Value: types.NewText(p.cur.Literal)}, nil
	case lexer.TRUE_KW:
		return &Literal{Value: types.NewBoolean(true)}, nil
	case lexer.FALSE_KW:
		return &Literal{Value: types.NewBoolean(false)}, nil
	default:
		return nil, p.errorf(p.cur.Pos, "expected a literal value, got %q", p.cur.Literal)
	}
}

func (p *Parser) literalFromInt() (Expression, error) {
	n, err := strconv.ParseUint(p.cur.Literal, 10, 32)
	if err != nil {
		return nil, p.errorf(p.cur.Pos, "integer literal %q does not fit in 32 bits", p.cur.Literal)
	}
	return &Literal{Value: types.NewNumber(uint32(n))}, nil
}
