package parser

import (
	"fmt"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/parser/ast"
	"github.com/leengari/lquery/internal/parser/lexer"
)

// SortSpec is a parsed sort key. The column is still a name; the engine
// resolves it against a table.
type SortSpec struct {
	Column string
	Order  dispatch.SortOrder
	Nulls  dispatch.NullPlacement
}

func (s SortSpec) String() string {
	return fmt.Sprintf("%s %s %s", s.Column, s.Order, s.Nulls)
}

type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token

	// column names in order of first appearance; the index is the reference id
	columns []string
	ids     map[string]int
}

func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0, ids: make(map[string]int)}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF}
	}
}

// Columns returns the referenced column names, indexed by reference id
func (p *Parser) Columns() []string { return p.columns }

// ParsePredicate parses a boolean expression such as "price * qty > 100".
// It returns the tree and the referenced column names indexed by reference id.
func ParsePredicate(input string) (ast.Predicate, []string, error) {
	p, err := newFromInput(input)
	if err != nil {
		return nil, nil, err
	}
	pred, err := p.Predicate()
	if err != nil {
		return nil, nil, err
	}
	return pred, p.columns, nil
}

// ParseValue parses an arithmetic expression such as "price * (1 - discount)"
func ParseValue(input string) (ast.Value, []string, error) {
	p, err := newFromInput(input)
	if err != nil {
		return nil, nil, err
	}
	val, err := p.Value()
	if err != nil {
		return nil, nil, err
	}
	return val, p.columns, nil
}

// ParseSortKeys parses a comma separated list such as "name, price DESC NULLS LAST"
func ParseSortKeys(input string) ([]SortSpec, error) {
	p, err := newFromInput(input)
	if err != nil {
		return nil, err
	}
	return p.SortKeys()
}

func newFromInput(input string) (*Parser, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return New(tokens), nil
}

// Predicate parses a whole token stream as a predicate
func (p *Parser) Predicate() (ast.Predicate, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return asPredicate(node)
}

// Value parses a whole token stream as a value expression
func (p *Parser) Value() (ast.Value, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return asValue(node)
}

// SortKeys parses a whole token stream as a sort key list
func (p *Parser) SortKeys() ([]SortSpec, error) {
	var specs []SortSpec
	for {
		spec, err := p.parseSortKey()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	if err := validateSortKeys(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *Parser) parseSortKey() (SortSpec, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return SortSpec{}, p.unexpected("column name")
	}
	spec := SortSpec{Column: p.curTok.Literal, Order: dispatch.Ascending, Nulls: dispatch.NullsBefore}
	p.nextToken()

	switch p.curTok.Type {
	case lexer.ASC:
		p.nextToken()
	case lexer.DESC:
		spec.Order = dispatch.Descending
		p.nextToken()
	}

	if p.curTok.Type == lexer.NULLS {
		p.nextToken()
		switch p.curTok.Type {
		case lexer.FIRST:
			spec.Nulls = dispatch.NullsBefore
		case lexer.LAST:
			spec.Nulls = dispatch.NullsAfter
		default:
			return SortSpec{}, p.unexpected("FIRST or LAST")
		}
		p.nextToken()
	}
	return spec, nil
}

func (p *Parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.OR {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l, r, err := predicatePair("OR", left, right)
		if err != nil {
			return nil, err
		}
		left = ast.Or(l, r)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.AND {
		p.nextToken()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l, r, err := predicatePair("AND", left, right)
		if err != nil {
			return nil, err
		}
		left = ast.And(l, r)
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Node, error) {
	if p.curTok.Type != lexer.NOT {
		return p.parseComparison()
	}
	p.nextToken()
	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	pred, err := asPredicate(operand)
	if err != nil {
		return nil, fmt.Errorf("NOT: %w", err)
	}
	return ast.Not(pred), nil
}

func (p *Parser) parseComparison() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOperator(p.curTok.Type)
	if !ok {
		return left, nil
	}
	p.nextToken()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	l, r, err := valuePair(op.Symbol(), left, right)
	if err != nil {
		return nil, err
	}
	return ast.Compare(op, l, r), nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOperator(p.curTok.Type)
		if !ok {
			return left, nil
		}
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l, r, err := valuePair(op.Symbol(), left, right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary(op, l, r)
	}
}

func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOperator(p.curTok.Type)
		if !ok {
			return left, nil
		}
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l, r, err := valuePair(op.Symbol(), left, right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary(op, l, r)
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.curTok.Type != lexer.MINUS {
		return p.parsePrimary()
	}
	p.nextToken()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	val, err := asValue(operand)
	if err != nil {
		return nil, fmt.Errorf("unary -: %w", err)
	}
	switch lit := val.(type) {
	case *ast.Literal[int64]:
		return ast.Int(-lit.Value), nil
	case *ast.Literal[float64]:
		return ast.Float(-lit.Value), nil
	}
	return ast.Unary(ast.Negate, val), nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	switch p.curTok.Type {
	case lexer.NUMBER:
		lit, err := parseNumber(p.curTok.Literal)
		if err != nil {
			return nil, err
		}
		p.nextToken()
		return lit, nil
	case lexer.IDENTIFIER:
		ref := p.columnReference(p.curTok.Literal)
		p.nextToken()
		return ref, nil
	case lexer.STRING:
		return nil, fmt.Errorf("text literals are not supported: '%s' at line %d, col %d",
			p.curTok.Literal, p.curTok.Line, p.curTok.Column)
	case lexer.PAREN_OPEN:
		p.nextToken()
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.curTok.Type != lexer.PAREN_CLOSE {
			return nil, p.unexpected(")")
		}
		p.nextToken()
		return node, nil
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) columnReference(name string) *ast.ColumnReference {
	id, ok := p.ids[name]
	if !ok {
		id = len(p.columns)
		p.ids[name] = id
		p.columns = append(p.columns, name)
	}
	return ast.Column(id)
}

func (p *Parser) expectEnd() error {
	if p.curTok.Type == lexer.SEMICOLON {
		p.nextToken()
	}
	if p.curTok.Type != lexer.EOF {
		return p.unexpected("end of input")
	}
	return nil
}

func (p *Parser) unexpected(expected string) error {
	if p.curTok.Type == lexer.EOF {
		return fmt.Errorf("expected %s, got end of input", expected)
	}
	return fmt.Errorf("expected %s, got %q at line %d, col %d",
		expected, p.curTok.Literal, p.curTok.Line, p.curTok.Column)
}
