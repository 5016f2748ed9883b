package sorting

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"gotest.tools/v3/assert"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// TestPermuteMapsRows verifies output row i is input row perm[i], nulls included
func TestPermuteMapsRows(t *testing.T) {
	col := intColumn(t, "a", []int64{10, 20, 30}, []bool{true, false, true})

	out, err := Permute(col, Permutation{2, 0, 1})
	assert.NilError(t, err)
	defer out.Release()

	values, valid, err := data.Values[int64](out)
	assert.NilError(t, err)
	assert.DeepEqual(t, valid, []bool{true, true, false})
	assert.Equal(t, values[0], int64(30))
	assert.Equal(t, values[1], int64(10))
	assert.Equal(t, out.Name(), "a")
}

func TestPermuteIdentitySharesStorage(t *testing.T) {
	col := intColumn(t, "a", []int64{1, 2, 3}, nil)

	out, err := Permute(col, Identity(3))
	assert.NilError(t, err)
	defer out.Release()
	assert.Assert(t, out == col)
}

func TestPermuteLengthMismatch(t *testing.T) {
	col := intColumn(t, "a", []int64{1, 2, 3}, nil)
	_, err := Permute(col, Permutation{0, 1})
	assert.Assert(t, errors.IsKind(err, errors.ErrLengthMismatch))
}

func TestTakeOutOfRange(t *testing.T) {
	col := intColumn(t, "a", []int64{1, 2, 3}, nil)
	_, err := Take(col, []int64{0, 7})
	assert.Assert(t, errors.IsKind(err, errors.ErrIndexOutOfRange))
}

func TestTakeSubset(t *testing.T) {
	col := textColumn(t, "s", []string{"a", "b", "c", "d"})
	out, err := Take(col, []int64{3, 1})
	assert.NilError(t, err)
	defer out.Release()
	values, _, err := data.Values[string](out)
	assert.NilError(t, err)
	assert.DeepEqual(t, values, []string{"d", "b"})
}

func TestValidate(t *testing.T) {
	assert.NilError(t, Permutation{1, 0, 2}.Validate(3))
	assert.ErrorContains(t, Permutation{1, 1, 2}.Validate(3), "repeated")
	assert.ErrorContains(t, Permutation{0, 3, 1}.Validate(3), "out of range")
	assert.ErrorContains(t, Permutation{0}.Validate(3), "expected 3")
}

func peopleTable(t *testing.T, mem memory.Allocator) *data.Table {
	t.Helper()
	ids, err := data.FromValues(mem, schema.Column{Name: "id", Type: schema.ColumnTypeInt, NotNull: true}, []int64{1, 2, 3, 4}, nil)
	assert.NilError(t, err)
	defer ids.Release()
	names, err := data.FromValues(mem, schema.Column{Name: "name", Type: schema.ColumnTypeText}, []string{"dan", "ann", "", "bob"}, []bool{true, true, false, true})
	assert.NilError(t, err)
	defer names.Release()
	scores, err := data.FromValues(mem, schema.Column{Name: "score", Type: schema.ColumnTypeFloat}, []float64{0.5, 0.5, 0.9, 0.1}, nil)
	assert.NilError(t, err)
	defer scores.Release()

	tbl, err := data.NewTableFromColumns("people", ids, names, scores)
	assert.NilError(t, err)
	return tbl
}

func TestSortTable(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := peopleTable(t, mem)
	defer tbl.Release()

	score, err := tbl.ColumnByName("score")
	assert.NilError(t, err)
	name, err := tbl.ColumnByName("name")
	assert.NilError(t, err)

	sorted, err := SortTable(tbl, []SortKey{
		{Column: score, Order: Descending},
		{Column: name, Nulls: NullsAfter},
	}, WithAllocator(mem), WithParallelism(2))
	assert.NilError(t, err)
	defer sorted.Release()

	assert.Assert(t, sorted.Schema() == tbl.Schema())
	ids, _, err := data.Values[int64](sorted.Column(0))
	assert.NilError(t, err)
	assert.DeepEqual(t, ids, []int64{3, 2, 1, 4})
}

func TestPermuteTableIdentity(t *testing.T) {
	tbl := peopleTable(t, memory.DefaultAllocator)
	defer tbl.Release()

	out, err := PermuteTable(tbl, Identity(tbl.NumRows()))
	assert.NilError(t, err)
	defer out.Release()
	assert.Assert(t, out == tbl)
}

func TestPermuteTableCancelled(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := peopleTable(t, mem)
	defer tbl.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PermuteTableContext(ctx, tbl, Permutation{3, 2, 1, 0}, WithAllocator(mem))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTakeTableSubset(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := peopleTable(t, mem)
	defer tbl.Release()

	out, err := TakeTable(context.Background(), tbl, []int64{3, 2}, WithAllocator(mem), WithParallelism(1))
	assert.NilError(t, err)
	defer out.Release()

	assert.Equal(t, out.NumRows(), 2)
	ids, _, err := data.Values[int64](out.Column(0))
	assert.NilError(t, err)
	assert.DeepEqual(t, ids, []int64{4, 3})
	_, valid, err := data.Values[string](out.Column(1))
	assert.NilError(t, err)
	assert.DeepEqual(t, valid, []bool{true, false})

	empty, err := TakeTable(context.Background(), tbl, nil, WithAllocator(mem))
	assert.NilError(t, err)
	defer empty.Release()
	assert.Equal(t, empty.NumRows(), 0)
	assert.Equal(t, empty.NumColumns(), 3)
}
