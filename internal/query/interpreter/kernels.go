package interpreter

import (
	"cmp"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/parser/ast"
)

// zip applies op row by row. L and R are concrete operand types, so a scalar
// side is broadcast by its at method and the loop carries no variant checks.
func zip[L indexable[A], R indexable[B], A, B any, O fixedWidth](mem memory.Allocator, n int, l L, r R, op func(A, B) O) *Array[O] {
	out := newOwned[O](mem, n)
	values := out.values
	for i := range values {
		values[i] = op(l.at(i), r.at(i))
	}
	out.valid = combine(mem, n, l.validity(), r.validity())
	return out
}

func mapUnary[L indexable[A], A any, O fixedWidth](mem memory.Allocator, n int, l L, op func(A) O) *Array[O] {
	out := newOwned[O](mem, n)
	values := out.values
	for i := range values {
		values[i] = op(l.at(i))
	}
	out.valid = combine(mem, n, l.validity(), validity{})
	return out
}

// zipFields resolves the concrete left operand type, then the right one
func zipFields[A, B numeric, O fixedWidth](mem memory.Allocator, n int, l, r Field, op func(A, B) O) (*Array[O], bool) {
	switch lv := l.(type) {
	case Scalar[A]:
		return zipRight[Scalar[A], A, B, O](mem, n, lv, r, op)
	case *Array[A]:
		return zipRight[*Array[A], A, B, O](mem, n, lv, r, op)
	}
	return nil, false
}

func zipRight[L indexable[A], A, B numeric, O fixedWidth](mem memory.Allocator, n int, l L, r Field, op func(A, B) O) (*Array[O], bool) {
	switch rv := r.(type) {
	case Scalar[B]:
		return zip(mem, n, l, rv, op), true
	case *Array[B]:
		return zip(mem, n, l, rv, op), true
	}
	return nil, false
}

func mapField[A numeric, O fixedWidth](mem memory.Allocator, n int, f Field, op func(A) O) (*Array[O], bool) {
	switch v := f.(type) {
	case Scalar[A]:
		return mapUnary(mem, n, v, op), true
	case *Array[A]:
		return mapUnary(mem, n, v, op), true
	}
	return nil, false
}

// arithmeticKernel returns the elementwise function for a binary arithmetic operator
func arithmeticKernel[T numeric](op ast.ValueOperator) (func(a, b T) T, error) {
	switch op {
	case ast.Plus:
		return func(a, b T) T { return a + b }, nil
	case ast.Minus:
		return func(a, b T) T { return a - b }, nil
	case ast.Times:
		return func(a, b T) T { return a * b }, nil
	case ast.Divide:
		return func(a, b T) T { return a / b }, nil
	default:
		return nil, errors.ErrNotImplemented.New("value operator " + op.String())
	}
}

// divideSkippingZero is the INT divide for divisors whose null rows hold a zero
func divideSkippingZero(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func negate[T numeric](a T) T { return -a }

func toFloat(a int64) float64 { return float64(a) }

func comparisonKernel[T cmp.Ordered](op ast.ComparisonOperator) (func(a, b T) uint8, error) {
	switch op {
	case ast.Greater:
		return func(a, b T) uint8 { return truth(a > b) }, nil
	case ast.Lesser:
		return func(a, b T) uint8 { return truth(a < b) }, nil
	case ast.Equal:
		return func(a, b T) uint8 { return truth(a == b) }, nil
	case ast.NotEqual:
		return func(a, b T) uint8 { return truth(a != b) }, nil
	case ast.GreaterOrEqual:
		return func(a, b T) uint8 { return truth(a >= b) }, nil
	case ast.LesserOrEqual:
		return func(a, b T) uint8 { return truth(a <= b) }, nil
	default:
		return nil, errors.ErrNotImplemented.New("comparison operator " + op.String())
	}
}

func truth(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
