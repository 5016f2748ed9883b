package data

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"gotest.tools/v3/assert"

	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

func TestNewTableChecksLengths(t *testing.T) {
	mem := memory.NewGoAllocator()
	a, err := FromValues(mem, intDef("a"), []int64{1, 2, 3}, nil)
	assert.NilError(t, err)
	defer a.Release()
	b, err := FromValues(mem, intDef("b"), []int64{1, 2}, nil)
	assert.NilError(t, err)
	defer b.Release()

	_, err = NewTableFromColumns("t", a, b)
	assert.Assert(t, errors.IsKind(err, errors.ErrLengthMismatch))
}

func TestNewTableChecksSchema(t *testing.T) {
	mem := memory.NewGoAllocator()
	a, err := FromValues(mem, intDef("a"), []int64{1}, nil)
	assert.NilError(t, err)
	defer a.Release()

	s, err := schema.NewTableSchema("t", schema.Column{Name: "a", Type: schema.ColumnTypeFloat})
	assert.NilError(t, err)

	_, err = NewTable(s, []*Column{a})
	assert.ErrorContains(t, err, "type_mismatch")
}

func TestTableRefCounting(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a, err := FromValues(mem, intDef("a"), []int64{1, 2}, nil)
	assert.NilError(t, err)
	tbl, err := NewTableFromColumns("t", a)
	assert.NilError(t, err)
	a.Release()

	col, err := tbl.ColumnByName("a")
	assert.NilError(t, err)
	assert.Equal(t, col.Len(), 2)
	assert.Equal(t, tbl.NumRows(), 2)

	_, err = tbl.ColumnByName("missing")
	assert.Assert(t, errors.IsKind(err, errors.ErrUnknownColumn))

	tbl.Release()
}

func TestWithColumnSharesStorage(t *testing.T) {
	mem := memory.NewGoAllocator()
	a, err := FromValues(mem, intDef("a"), []int64{1, 2}, nil)
	assert.NilError(t, err)
	defer a.Release()
	tbl, err := NewTableFromColumns("t", a)
	assert.NilError(t, err)
	defer tbl.Release()

	b, err := a.Renamed("b")
	assert.NilError(t, err)
	defer b.Release()

	wide, err := tbl.WithColumn(b)
	assert.NilError(t, err)
	defer wide.Release()

	assert.DeepEqual(t, wide.Schema().ColumnNames(), []string{"a", "b"})
	assert.Equal(t, wide.Column(1).Chunk(0), a.Chunk(0))

	_, err = wide.WithColumn(b)
	assert.ErrorContains(t, err, "duplicate column")
}
