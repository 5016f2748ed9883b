package data

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// Element is the set of Go types a column value can take
type Element interface {
	int64 | float64 | string
}

// Description binds a logical column type to its Go element type and to the
// arrow array and builder types that store it.
type Description[T Element] struct {
	Type schema.ColumnType
	// Default is used in place of a missing value in a NOT NULL column
	Default T

	reader   func(arrow.Array) (func(int) T, bool)
	appender func(array.Builder) func(T)
}

var (
	Int64 = Description[int64]{
		Type: schema.ColumnTypeInt,
		reader: func(arr arrow.Array) (func(int) int64, bool) {
			a, ok := arr.(*array.Int64)
			if !ok {
				return nil, false
			}
			values := a.Int64Values()
			return func(i int) int64 { return values[i] }, true
		},
		appender: func(b array.Builder) func(int64) {
			return b.(*array.Int64Builder).Append
		},
	}

	Float64 = Description[float64]{
		Type: schema.ColumnTypeFloat,
		reader: func(arr arrow.Array) (func(int) float64, bool) {
			a, ok := arr.(*array.Float64)
			if !ok {
				return nil, false
			}
			values := a.Float64Values()
			return func(i int) float64 { return values[i] }, true
		},
		appender: func(b array.Builder) func(float64) {
			return b.(*array.Float64Builder).Append
		},
	}

	Text = Description[string]{
		Type: schema.ColumnTypeText,
		reader: func(arr arrow.Array) (func(int) string, bool) {
			a, ok := arr.(*array.String)
			if !ok {
				return nil, false
			}
			return a.Value, true
		},
		appender: func(b array.Builder) func(string) {
			return b.(*array.StringBuilder).Append
		},
	}
)

// DescriptionFor returns the description registered for T
func DescriptionFor[T Element]() Description[T] {
	var zero T
	switch any(zero).(type) {
	case int64:
		return any(Int64).(Description[T])
	case float64:
		return any(Float64).(Description[T])
	default:
		return any(Text).(Description[T])
	}
}

// Reader returns an accessor reading the values of one chunk by offset.
// Null slots yield whatever the value buffer holds.
func (d Description[T]) Reader(arr arrow.Array) (func(int) T, error) {
	read, ok := d.reader(arr)
	if !ok {
		return nil, errors.NewTypeMismatch("", "", arr.DataType().String(), d.Type.String())
	}
	return read, nil
}

// NewBuilder allocates a typed builder for the described type
func (d Description[T]) NewBuilder(mem memory.Allocator) *Builder[T] {
	dt, _ := d.Type.ArrowType()
	b := array.NewBuilder(mem, dt)
	return &Builder[T]{b: b, add: d.appender(b)}
}

// Builder accumulates values and nulls of one element type into an arrow array
type Builder[T Element] struct {
	b   array.Builder
	add func(T)
}

func (b *Builder[T]) Append(v T) { b.add(v) }

func (b *Builder[T]) AppendNull() { b.b.AppendNull() }

func (b *Builder[T]) Reserve(n int) { b.b.Reserve(n) }

func (b *Builder[T]) Len() int { return b.b.Len() }

// NewArray finishes the builder; the builder is reset and may be reused
func (b *Builder[T]) NewArray() arrow.Array { return b.b.NewArray() }

func (b *Builder[T]) Release() { b.b.Release() }
