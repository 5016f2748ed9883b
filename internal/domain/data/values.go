package data

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// FromValues builds a single chunk column from Go values.
// valid may be nil (no nulls); otherwise valid[i] == false marks row i null.
func FromValues[T Element](mem memory.Allocator, def schema.Column, values []T, valid []bool) (*Column, error) {
	desc := DescriptionFor[T]()
	if def.Type != desc.Type {
		return nil, errors.NewTypeMismatch("", def.Name, desc.Type.String(), def.Type.String())
	}
	if valid != nil && len(valid) != len(values) {
		return nil, errors.ErrLengthMismatch.New(def.Name+" validity", len(valid), len(values))
	}

	b := desc.NewBuilder(mem)
	defer b.Release()
	b.Reserve(len(values))
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	arr := b.NewArray()
	defer arr.Release()

	return NewColumn(def, arr)
}

// ChunkedFromValues builds a column with one chunk per values slice; used to
// exercise multi-chunk code paths.
func ChunkedFromValues[T Element](mem memory.Allocator, def schema.Column, chunks ...[]T) (*Column, error) {
	desc := DescriptionFor[T]()
	arrs := make([]arrow.Array, 0, len(chunks))
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()
	b := desc.NewBuilder(mem)
	defer b.Release()
	for _, values := range chunks {
		b.Reserve(len(values))
		for _, v := range values {
			b.Append(v)
		}
		arrs = append(arrs, b.NewArray())
	}
	return NewColumn(def, arrs...)
}

// Iterate visits every row in order, calling onValue for set values and
// onNull for nulls.
func Iterate[T Element](col *Column, onValue func(row int, v T), onNull func(row int)) error {
	desc := DescriptionFor[T]()
	row := 0
	for _, chunk := range col.Chunks() {
		read, err := desc.Reader(chunk)
		if err != nil {
			return err
		}
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				onNull(row)
			} else {
				onValue(row, read(i))
			}
			row++
		}
	}
	return nil
}

// Values copies a column out into Go slices. valid is nil when the column has no nulls.
func Values[T Element](col *Column) (values []T, valid []bool, err error) {
	values = make([]T, col.Len())
	if col.NullN() > 0 {
		valid = make([]bool, col.Len())
	}
	err = Iterate(col,
		func(row int, v T) {
			values[row] = v
			if valid != nil {
				valid[row] = true
			}
		},
		func(int) {},
	)
	if err != nil {
		return nil, nil, err
	}
	return values, valid, nil
}
