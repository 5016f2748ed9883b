// Package interpreter evaluates expression trees over the columns of a table.
//
// Value nodes evaluate to a Field: a scalar for literals, a borrowed array
// for column references (the column's buffer is wrapped, never copied) and an
// owned array for operator results. Predicates evaluate to a Mask with one
// byte per row.
//
// Columns must consist of a single chunk. Rows where an operand is null
// produce null results, and predicates are false on them.
package interpreter

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/parser/ast"
)

// ColumnMapping maps a column reference id to a physical column index
type ColumnMapping []int

// Option configures an Interpreter
type Option func(*Interpreter)

// WithAllocator sets the allocator for owned buffers
func WithAllocator(mem memory.Allocator) Option {
	return func(in *Interpreter) {
		if mem != nil {
			in.mem = mem
		}
	}
}

// Interpreter is bound to one table and one column mapping
type Interpreter struct {
	table   *data.Table
	mapping ColumnMapping
	mem     memory.Allocator
	rows    int
}

func New(table *data.Table, mapping ColumnMapping, opts ...Option) (*Interpreter, error) {
	for id, idx := range mapping {
		if idx < 0 || idx >= table.NumColumns() {
			return nil, fmt.Errorf("column reference %d maps to column %d, table %q has %d columns",
				id, idx, table.Name(), table.NumColumns())
		}
	}
	in := &Interpreter{
		table:   table,
		mapping: mapping,
		mem:     memory.DefaultAllocator,
		rows:    table.NumRows(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// Execute evaluates a predicate over table in one call
func Execute(table *data.Table, predicate ast.Predicate, mapping ColumnMapping, opts ...Option) (*Mask, error) {
	in, err := New(table, mapping, opts...)
	if err != nil {
		return nil, err
	}
	return in.Evaluate(predicate)
}

// NumRows is the row count of the bound table
func (in *Interpreter) NumRows() int { return in.rows }

// EvaluateValue evaluates a value node. The caller releases the result.
func (in *Interpreter) EvaluateValue(node ast.Value) (Field, error) {
	switch n := node.(type) {
	case *ast.ColumnReference:
		return in.columnReference(n.ID)
	case *ast.Literal[int64]:
		return Scalar[int64]{Value: n.Value}, nil
	case *ast.Literal[float64]:
		return Scalar[float64]{Value: n.Value}, nil
	case *ast.ValueOperation:
		return in.valueOperation(n)
	case nil:
		return nil, fmt.Errorf("missing value operand")
	default:
		return nil, errors.ErrNotImplemented.New(fmt.Sprintf("value node %T", node))
	}
}

func (in *Interpreter) columnReference(id int) (Field, error) {
	if id < 0 || id >= len(in.mapping) {
		return nil, errors.ErrUnknownColumnReference.New(id)
	}
	col := in.table.Column(in.mapping[id])
	if col.NumChunks() != 1 {
		return nil, errors.ErrChunkedColumn.New(col.Name(), col.NumChunks())
	}
	chunk := col.Chunk(0)
	return dispatch.OnType(col.Type(), dispatch.TypeCases[Field]{
		Int:   func() (Field, error) { return borrowInt(chunk), nil },
		Float: func() (Field, error) { return borrowFloat(chunk), nil },
		Text:  func() (Field, error) { return borrowText(chunk), nil },
	})
}

func (in *Interpreter) valueOperation(n *ast.ValueOperation) (Field, error) {
	var operands [ast.MaxOperatorArity]Field
	defer func() {
		for _, f := range operands {
			if f != nil {
				f.Release()
			}
		}
	}()
	for i := 0; i < n.Op.Arity(); i++ {
		f, err := in.EvaluateValue(n.Operands[i])
		if err != nil {
			return nil, err
		}
		operands[i] = f
	}

	switch n.Op {
	case ast.Plus, ast.Minus, ast.Times, ast.Divide:
		return in.arithmetic(n.Op, operands[0], operands[1])
	case ast.Negate:
		return in.negate(operands[0])
	default:
		return nil, errors.ErrNotImplemented.New("value operator " + n.Op.String())
	}
}

// Evaluate evaluates a predicate into a mask. The caller releases the mask.
func (in *Interpreter) Evaluate(node ast.Predicate) (*Mask, error) {
	switch n := node.(type) {
	case *ast.PredicateFromValueOperation:
		return in.comparison(n)
	case *ast.PredicateOperation:
		return nil, errors.ErrNotImplemented.New("PredicateOperation")
	case nil:
		return nil, fmt.Errorf("missing predicate")
	default:
		return nil, errors.ErrNotImplemented.New(fmt.Sprintf("predicate node %T", node))
	}
}

func (in *Interpreter) comparison(n *ast.PredicateFromValueOperation) (*Mask, error) {
	l, err := in.EvaluateValue(n.Operands[0])
	if err != nil {
		return nil, err
	}
	defer l.Release()
	r, err := in.EvaluateValue(n.Operands[1])
	if err != nil {
		return nil, err
	}
	defer r.Release()

	out, err := in.compare(n.Op, l, r)
	if err != nil {
		return nil, err
	}
	return newMask(out), nil
}
