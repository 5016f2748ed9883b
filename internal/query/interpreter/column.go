package interpreter

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/schema"
)

// ToColumn materializes a field as a column of n rows.
// Owned buffers are shared with the new column, borrowed arrays reuse their
// source chunk and scalars are broadcast. The field still has to be released.
func ToColumn(f Field, name string, n int, mem memory.Allocator) (*data.Column, error) {
	switch v := f.(type) {
	case Scalar[int64]:
		return broadcast(mem, schema.Column{Name: name, Type: schema.ColumnTypeInt, NotNull: true}, v.Value, n)
	case Scalar[float64]:
		return broadcast(mem, schema.Column{Name: name, Type: schema.ColumnTypeFloat, NotNull: true}, v.Value, n)
	case *Array[int64]:
		return arrayColumn(v, schema.Column{Name: name, Type: schema.ColumnTypeInt}, arrow.PrimitiveTypes.Int64)
	case *Array[float64]:
		return arrayColumn(v, schema.Column{Name: name, Type: schema.ColumnTypeFloat}, arrow.PrimitiveTypes.Float64)
	case *TextArray:
		def := schema.Column{Name: name, Type: schema.ColumnTypeText, NotNull: v.arr.NullN() == 0}
		return data.NewColumn(def, v.arr)
	default:
		return nil, fmt.Errorf("cannot convert %s into a column", f.Kind())
	}
}

func broadcast[T int64 | float64](mem memory.Allocator, def schema.Column, value T, n int) (*data.Column, error) {
	b := data.DescriptionFor[T]().NewBuilder(mem)
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		b.Append(value)
	}
	arr := b.NewArray()
	defer arr.Release()
	return data.NewColumn(def, arr)
}

func arrayColumn[T int64 | float64](a *Array[T], def schema.Column, dt arrow.DataType) (*data.Column, error) {
	if a.source != nil {
		def.NotNull = a.source.NullN() == 0
		return data.NewColumn(def, a.source)
	}
	if a.owned == nil {
		return nil, fmt.Errorf("column %q: operand already released", def.Name)
	}

	n := len(a.values)
	nulls := a.NullN()
	var bitmap *memory.Buffer
	if nulls > 0 {
		bitmap = a.valid.owned
	}
	def.NotNull = nulls == 0

	d := array.NewData(dt, n, []*memory.Buffer{bitmap, a.owned}, nil, nulls, 0)
	defer d.Release()
	arr := array.MakeFromData(d)
	defer arr.Release()
	return data.NewColumn(def, arr)
}
