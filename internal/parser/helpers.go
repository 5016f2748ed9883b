package parser

import (
	"fmt"

	"github.com/leengari/lquery/internal/parser/ast"
	"github.com/leengari/lquery/internal/parser/lexer"
)

// comparisonOperator maps a comparison token to its operator
func comparisonOperator(t lexer.TokenType) (ast.ComparisonOperator, bool) {
	switch t {
	case lexer.EQUALS:
		return ast.Equal, true
	case lexer.NOT_EQUAL:
		return ast.NotEqual, true
	case lexer.LESS_THAN:
		return ast.Lesser, true
	case lexer.LESS_EQUAL:
		return ast.LesserOrEqual, true
	case lexer.GREATER_THAN:
		return ast.Greater, true
	case lexer.GREATER_EQUAL:
		return ast.GreaterOrEqual, true
	}
	return 0, false
}

func additiveOperator(t lexer.TokenType) (ast.ValueOperator, bool) {
	switch t {
	case lexer.PLUS:
		return ast.Plus, true
	case lexer.MINUS:
		return ast.Minus, true
	}
	return 0, false
}

func multiplicativeOperator(t lexer.TokenType) (ast.ValueOperator, bool) {
	switch t {
	case lexer.ASTERISK:
		return ast.Times, true
	case lexer.SLASH:
		return ast.Divide, true
	}
	return 0, false
}

func asValue(n ast.Node) (ast.Value, error) {
	v, ok := n.(ast.Value)
	if !ok {
		return nil, fmt.Errorf("expected a value, got predicate %s", n)
	}
	return v, nil
}

func asPredicate(n ast.Node) (ast.Predicate, error) {
	p, ok := n.(ast.Predicate)
	if !ok {
		return nil, fmt.Errorf("expected a predicate, got value %s", n)
	}
	return p, nil
}

// valuePair checks that both operands of an arithmetic or comparison operator are values
func valuePair(op string, l, r ast.Node) (ast.Value, ast.Value, error) {
	lv, err := asValue(l)
	if err != nil {
		return nil, nil, fmt.Errorf("left operand of %s: %w", op, err)
	}
	rv, err := asValue(r)
	if err != nil {
		return nil, nil, fmt.Errorf("right operand of %s: %w", op, err)
	}
	return lv, rv, nil
}

// predicatePair checks that both operands of AND/OR are predicates
func predicatePair(op string, l, r ast.Node) (ast.Predicate, ast.Predicate, error) {
	lp, err := asPredicate(l)
	if err != nil {
		return nil, nil, fmt.Errorf("left operand of %s: %w", op, err)
	}
	rp, err := asPredicate(r)
	if err != nil {
		return nil, nil, fmt.Errorf("right operand of %s: %w", op, err)
	}
	return lp, rp, nil
}
