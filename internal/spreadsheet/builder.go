package spreadsheet

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/tealeg/xlsx"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// columnBuilder accumulates the cells of one sheet column
type columnBuilder interface {
	AddFromCell(cell *xlsx.Cell, row int) error
	AddMissing()
	Reserve(n int)
	Finish() (*data.Column, error)
	Release()
}

type cellBuilder[T data.Element] struct {
	def     schema.Column
	table   string
	b       *data.Builder[T]
	convert func(*xlsx.Cell) (T, bool)
}

func newColumnBuilder(mem memory.Allocator, table string, def schema.Column) (columnBuilder, error) {
	return dispatch.OnType(def.Type, dispatch.TypeCases[columnBuilder]{
		Int:   func() (columnBuilder, error) { return newCellBuilder(mem, table, def, intFromCell), nil },
		Float: func() (columnBuilder, error) { return newCellBuilder(mem, table, def, floatFromCell), nil },
		Text:  func() (columnBuilder, error) { return newCellBuilder(mem, table, def, textFromCell), nil },
	})
}

func newCellBuilder[T data.Element](mem memory.Allocator, table string, def schema.Column, convert func(*xlsx.Cell) (T, bool)) *cellBuilder[T] {
	return &cellBuilder[T]{
		def:     def,
		table:   table,
		b:       data.DescriptionFor[T]().NewBuilder(mem),
		convert: convert,
	}
}

func (c *cellBuilder[T]) AddFromCell(cell *xlsx.Cell, row int) error {
	if isMissing(cell) {
		c.AddMissing()
		return nil
	}
	v, ok := c.convert(cell)
	if !ok {
		err := errors.NewTypeMismatch(c.table, c.def.Name, cell.Value, c.def.Type.String())
		err.RowIndex = row
		return err
	}
	c.b.Append(v)
	return nil
}

// AddMissing appends null, or the type default for a NOT NULL column
func (c *cellBuilder[T]) AddMissing() {
	if c.def.Nullable() {
		c.b.AppendNull()
		return
	}
	c.b.Append(data.DescriptionFor[T]().Default)
}

func (c *cellBuilder[T]) Reserve(n int) { c.b.Reserve(n) }

func (c *cellBuilder[T]) Finish() (*data.Column, error) {
	arr := c.b.NewArray()
	defer arr.Release()
	return data.NewColumn(c.def, arr)
}

func (c *cellBuilder[T]) Release() { c.b.Release() }

func isMissing(cell *xlsx.Cell) bool {
	return cell == nil || cell.Value == ""
}

func intFromCell(cell *xlsx.Cell) (int64, bool) {
	if v, err := cell.Int64(); err == nil {
		return v, true
	}
	// integral numbers may be stored in float notation
	f, err := cell.Float()
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func floatFromCell(cell *xlsx.Cell) (float64, bool) {
	f, err := cell.Float()
	return f, err == nil
}

func textFromCell(cell *xlsx.Cell) (string, bool) {
	return cell.String(), true
}
