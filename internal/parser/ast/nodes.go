package ast

import (
	"fmt"
	"strconv"
)

// MaxOperatorArity is the largest number of operands any operator takes
const MaxOperatorArity = 2

// Node is the base interface for all expression tree nodes
type Node interface {
	NodeType() string
	String() string
	Children() []Node
}

// Value is a node evaluating to a scalar or to one value per row
type Value interface {
	Node
	valueNode()
}

// Predicate is a node evaluating to a boolean per row
type Predicate interface {
	Node
	predicateNode()
}

// ColumnReference refers to a table column through the interpreter's mapping
type ColumnReference struct {
	ID int
}

func (c *ColumnReference) valueNode()       {}
func (c *ColumnReference) NodeType() string { return "ColumnReference" }
func (c *ColumnReference) String() string   { return "#" + strconv.Itoa(c.ID) }
func (c *ColumnReference) Children() []Node { return nil }

// LiteralValue is the set of literal types
type LiteralValue interface {
	int64 | float64
}

// Literal is a constant
type Literal[T LiteralValue] struct {
	Value T
}

func (l *Literal[T]) valueNode() {}
func (l *Literal[T]) NodeType() string {
	var zero T
	if _, ok := any(zero).(int64); ok {
		return "Literal<int64>"
	}
	return "Literal<double>"
}
func (l *Literal[T]) String() string   { return fmt.Sprint(l.Value) }
func (l *Literal[T]) Children() []Node { return nil }

// ValueOperation applies an arithmetic operator; only the first Op.Arity() operands are used
type ValueOperation struct {
	Op       ValueOperator
	Operands [MaxOperatorArity]Value
}

func (v *ValueOperation) valueNode()       {}
func (v *ValueOperation) NodeType() string { return "ValueOperation(" + v.Op.String() + ")" }
func (v *ValueOperation) String() string {
	if v.Op.Arity() == 1 {
		return fmt.Sprintf("(%s%s)", v.Op.Symbol(), v.Operands[0])
	}
	return fmt.Sprintf("(%s %s %s)", v.Operands[0], v.Op.Symbol(), v.Operands[1])
}
func (v *ValueOperation) Children() []Node {
	children := make([]Node, 0, v.Op.Arity())
	for _, operand := range v.Operands[:v.Op.Arity()] {
		children = append(children, operand)
	}
	return children
}

// PredicateFromValueOperation compares two values row by row
type PredicateFromValueOperation struct {
	Op       ComparisonOperator
	Operands [MaxOperatorArity]Value
}

func (p *PredicateFromValueOperation) predicateNode() {}
func (p *PredicateFromValueOperation) NodeType() string {
	return "PredicateFromValueOperation(" + p.Op.String() + ")"
}
func (p *PredicateFromValueOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Operands[0], p.Op.Symbol(), p.Operands[1])
}
func (p *PredicateFromValueOperation) Children() []Node {
	return []Node{p.Operands[0], p.Operands[1]}
}

// PredicateOperation combines predicates
type PredicateOperation struct {
	Op       LogicalOperator
	Operands [MaxOperatorArity]Predicate
}

func (p *PredicateOperation) predicateNode()   {}
func (p *PredicateOperation) NodeType() string { return "PredicateOperation(" + p.Op.String() + ")" }
func (p *PredicateOperation) String() string {
	if p.Op.Arity() == 1 {
		return fmt.Sprintf("(%s %s)", p.Op.Symbol(), p.Operands[0])
	}
	return fmt.Sprintf("(%s %s %s)", p.Operands[0], p.Op.Symbol(), p.Operands[1])
}
func (p *PredicateOperation) Children() []Node {
	children := make([]Node, 0, p.Op.Arity())
	for _, operand := range p.Operands[:p.Op.Arity()] {
		children = append(children, operand)
	}
	return children
}

func Column(id int) *ColumnReference { return &ColumnReference{ID: id} }

func Int(v int64) *Literal[int64] { return &Literal[int64]{Value: v} }

func Float(v float64) *Literal[float64] { return &Literal[float64]{Value: v} }

func Binary(op ValueOperator, left, right Value) *ValueOperation {
	return &ValueOperation{Op: op, Operands: [MaxOperatorArity]Value{left, right}}
}

func Unary(op ValueOperator, operand Value) *ValueOperation {
	return &ValueOperation{Op: op, Operands: [MaxOperatorArity]Value{operand}}
}

func Compare(op ComparisonOperator, left, right Value) *PredicateFromValueOperation {
	return &PredicateFromValueOperation{Op: op, Operands: [MaxOperatorArity]Value{left, right}}
}

func And(left, right Predicate) *PredicateOperation {
	return &PredicateOperation{Op: LogicalAnd, Operands: [MaxOperatorArity]Predicate{left, right}}
}

func Or(left, right Predicate) *PredicateOperation {
	return &PredicateOperation{Op: LogicalOr, Operands: [MaxOperatorArity]Predicate{left, right}}
}

func Not(operand Predicate) *PredicateOperation {
	return &PredicateOperation{Op: LogicalNot, Operands: [MaxOperatorArity]Predicate{operand}}
}
