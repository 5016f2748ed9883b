package ast

import "fmt"

// ValueOperator is an arithmetic operator
type ValueOperator int

const (
	Plus ValueOperator = iota
	Minus
	Times
	Divide
	Negate
)

var valueOperators = [...]struct{ name, symbol string }{
	Plus:   {"Plus", "+"},
	Minus:  {"Minus", "-"},
	Times:  {"Times", "*"},
	Divide: {"Divide", "/"},
	Negate: {"Negate", "-"},
}

// Arity is the number of operands the operator consumes
func (op ValueOperator) Arity() int {
	if op == Negate {
		return 1
	}
	return 2
}

func (op ValueOperator) String() string {
	if op < 0 || int(op) >= len(valueOperators) {
		return fmt.Sprintf("ValueOperator(%d)", int(op))
	}
	return valueOperators[op].name
}

func (op ValueOperator) Symbol() string {
	if op < 0 || int(op) >= len(valueOperators) {
		return "?"
	}
	return valueOperators[op].symbol
}

// ComparisonOperator turns two values into a predicate
type ComparisonOperator int

const (
	Greater ComparisonOperator = iota
	Lesser
	Equal
	NotEqual
	GreaterOrEqual
	LesserOrEqual
)

var comparisonOperators = [...]struct{ name, symbol string }{
	Greater:        {"Greater", ">"},
	Lesser:         {"Lesser", "<"},
	Equal:          {"Equal", "="},
	NotEqual:       {"NotEqual", "!="},
	GreaterOrEqual: {"GreaterOrEqual", ">="},
	LesserOrEqual:  {"LesserOrEqual", "<="},
}

func (op ComparisonOperator) String() string {
	if op < 0 || int(op) >= len(comparisonOperators) {
		return fmt.Sprintf("ComparisonOperator(%d)", int(op))
	}
	return comparisonOperators[op].name
}

func (op ComparisonOperator) Symbol() string {
	if op < 0 || int(op) >= len(comparisonOperators) {
		return "?"
	}
	return comparisonOperators[op].symbol
}

// LogicalOperator combines predicates
type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
	LogicalNot
)

func (op LogicalOperator) Arity() int {
	if op == LogicalNot {
		return 1
	}
	return 2
}

func (op LogicalOperator) String() string {
	switch op {
	case LogicalAnd:
		return "And"
	case LogicalOr:
		return "Or"
	case LogicalNot:
		return "Not"
	default:
		return fmt.Sprintf("LogicalOperator(%d)", int(op))
	}
}

func (op LogicalOperator) Symbol() string {
	switch op {
	case LogicalAnd:
		return "AND"
	case LogicalOr:
		return "OR"
	case LogicalNot:
		return "NOT"
	default:
		return "?"
	}
}
