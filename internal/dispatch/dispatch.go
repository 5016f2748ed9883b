// Package dispatch turns runtime tags (column type, nullability, sort order,
// null placement) into calls of statically specialized code.
//
// Each On* function is one exhaustive switch over its tag. The case bodies are
// continuations that call generic functions instantiated for the selected
// specialization, so loops inside those functions never look at the tag
// again. Tags compose by nesting: a type continuation typically dispatches
// nullability, which dispatches order, and so on.
//
// A tag outside its enumeration is an internal error, returned as
// errors.ErrInvalidTag rather than treated as a normal outcome.
package dispatch

import (
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// TypeCases holds one continuation per logical column type
type TypeCases[R any] struct {
	Int   func() (R, error)
	Float func() (R, error)
	Text  func() (R, error)
}

// OnType calls the continuation registered for t
func OnType[R any](t schema.ColumnType, cases TypeCases[R]) (R, error) {
	switch t {
	case schema.ColumnTypeInt:
		return cases.Int()
	case schema.ColumnTypeFloat:
		return cases.Float()
	case schema.ColumnTypeText:
		return cases.Text()
	default:
		var zero R
		return zero, errors.ErrInvalidTag.New("column type", string(t))
	}
}

// NumericCases is TypeCases without text, for operations only defined on numbers
type NumericCases[R any] struct {
	Int   func() (R, error)
	Float func() (R, error)
}

// OnNumericType dispatches numeric types; TEXT is reported through onText
func OnNumericType[R any](t schema.ColumnType, cases NumericCases[R], onText func() (R, error)) (R, error) {
	return OnType(t, TypeCases[R]{Int: cases.Int, Float: cases.Float, Text: onText})
}

// OnNullability selects the nullable or dense specialization.
// The dense path may assume every slot is valid.
func OnNullability[R any](hasNulls bool, nullable, dense func() (R, error)) (R, error) {
	if hasNulls {
		return nullable()
	}
	return dense()
}

// SelectNullability is OnNullability for specializations that cannot fail
func SelectNullability[R any](hasNulls bool, nullable, dense func() R) R {
	if hasNulls {
		return nullable()
	}
	return dense()
}

// SortOrder is the direction of a sort key
type SortOrder uint8

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return "SortOrder(?)"
	}
}

// OnOrder calls asc or desc
func OnOrder[R any](o SortOrder, asc, desc func() R) (R, error) {
	switch o {
	case Ascending:
		return asc(), nil
	case Descending:
		return desc(), nil
	default:
		var zero R
		return zero, errors.ErrInvalidTag.New("sort order", uint8(o))
	}
}

// NullPlacement positions nulls relative to non-null values,
// independently of the sort direction
type NullPlacement uint8

const (
	NullsBefore NullPlacement = iota
	NullsAfter
)

func (p NullPlacement) String() string {
	switch p {
	case NullsBefore:
		return "NULLS FIRST"
	case NullsAfter:
		return "NULLS LAST"
	default:
		return "NullPlacement(?)"
	}
}

// OnNullPlacement calls before or after
func OnNullPlacement[R any](p NullPlacement, before, after func() R) (R, error) {
	switch p {
	case NullsBefore:
		return before(), nil
	case NullsAfter:
		return after(), nil
	default:
		var zero R
		return zero, errors.ErrInvalidTag.New("null placement", uint8(p))
	}
}
