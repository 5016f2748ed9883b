package engine

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/lquery/internal/config"
	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
	"github.com/leengari/lquery/internal/parser"
)

// ordersTable: id INT [1..5], qty INT [3,null,1,5,2], price FLOAT [2,10,4,1,10], item TEXT
func ordersTable(t *testing.T, mem memory.Allocator) *data.Table {
	t.Helper()
	id, err := data.FromValues(mem, schema.Column{Name: "id", Type: schema.ColumnTypeInt, NotNull: true}, []int64{1, 2, 3, 4, 5}, nil)
	require.NoError(t, err)
	defer id.Release()
	qty, err := data.FromValues(mem, schema.Column{Name: "qty", Type: schema.ColumnTypeInt}, []int64{3, 0, 1, 5, 2}, []bool{true, false, true, true, true})
	require.NoError(t, err)
	defer qty.Release()
	price, err := data.FromValues(mem, schema.Column{Name: "price", Type: schema.ColumnTypeFloat, NotNull: true}, []float64{2, 10, 4, 1, 10}, nil)
	require.NoError(t, err)
	defer price.Release()
	item, err := data.FromValues(mem, schema.Column{Name: "item", Type: schema.ColumnTypeText, NotNull: true}, []string{"pen", "ink", "pad", "pin", "cap"}, nil)
	require.NoError(t, err)
	defer item.Release()

	tbl, err := data.NewTableFromColumns("orders", id, qty, price, item)
	require.NoError(t, err)
	return tbl
}

func newTestEngine(t *testing.T) (*Engine, *data.Table, *MockObserver, func()) {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	cfg := config.Default()
	cfg.Engine.Parallelism = 2
	eng := New(cfg, WithAllocator(mem))
	observer := &MockObserver{}
	eng.AddObserver(observer)
	tbl := ordersTable(t, mem)
	return eng, tbl, observer, func() {
		tbl.Release()
		mem.AssertSize(t, 0)
	}
}

func ids(t *testing.T, tbl *data.Table) []int64 {
	t.Helper()
	col, err := tbl.ColumnByName("id")
	require.NoError(t, err)
	values, _, err := data.Values[int64](col)
	require.NoError(t, err)
	return values
}

func TestSort(t *testing.T) {
	eng, tbl, observer, done := newTestEngine(t)
	defer done()

	out, err := eng.Sort(context.Background(), tbl, "price DESC, qty NULLS LAST")
	require.NoError(t, err)
	defer out.Release()

	// price 10 ties between id 2 (qty null) and id 5 (qty 2); nulls last puts 5 first
	assert.Equal(t, []int64{5, 2, 3, 1, 4}, ids(t, out))
	assert.Equal(t, []EventType{EventParseStart, EventParseEnd, EventSortStart, EventSortEnd}, observer.Types())

	runID := observer.Events[0].RunID
	assert.NotEmpty(t, runID)
	for _, e := range observer.Events {
		assert.Equal(t, runID, e.RunID)
	}
}

func TestSortBy(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	out, err := eng.SortBy(context.Background(), tbl, []parser.SortSpec{
		{Column: "item", Order: dispatch.Ascending, Nulls: dispatch.NullsBefore},
	})
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, []int64{5, 2, 3, 1, 4}, ids(t, out))
}

func TestSortErrors(t *testing.T) {
	eng, tbl, observer, done := newTestEngine(t)
	defer done()

	_, err := eng.Sort(context.Background(), tbl, "missing")
	assert.True(t, errors.IsKind(err, errors.ErrUnknownColumn))
	assert.Equal(t, EventRunFailed, observer.Events[len(observer.Events)-1].Type)

	_, err = eng.Sort(context.Background(), tbl, "price +")
	assert.ErrorContains(t, err, "parse error")

	_, err = eng.SortBy(context.Background(), tbl, nil)
	assert.True(t, errors.IsKind(err, errors.ErrNoSortKeys))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Sort(ctx, tbl, "price")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilter(t *testing.T) {
	eng, tbl, observer, done := newTestEngine(t)
	defer done()

	out, err := eng.Filter(context.Background(), tbl, "qty * price >= 6")
	require.NoError(t, err)
	defer out.Release()

	// row 2 has a null qty and is dropped
	assert.Equal(t, []int64{1, 5}, ids(t, out))
	assert.Equal(t, tbl.Schema(), out.Schema())
	assert.Equal(t, []EventType{EventParseStart, EventParseEnd, EventEvalStart, EventEvalEnd, EventGatherStart, EventGatherEnd},
		observer.Types())
}

func TestFilterNothingSelected(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	out, err := eng.Filter(context.Background(), tbl, "price < 0")
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, 0, out.NumRows())
	assert.Equal(t, 4, out.NumColumns())
}

func TestFilterErrors(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	tests := []struct {
		name      string
		predicate string
		check     func(t *testing.T, err error)
	}{
		{name: "unknown column", predicate: "weight > 1", check: func(t *testing.T, err error) {
			assert.True(t, errors.IsKind(err, errors.ErrUnknownColumn))
		}},
		{name: "text arithmetic", predicate: "item + 1 > 2", check: func(t *testing.T, err error) {
			var opErr *errors.OperandTypeError
			assert.ErrorAs(t, err, &opErr)
		}},
		{name: "logical operators", predicate: "qty > 1 AND price < 5", check: func(t *testing.T, err error) {
			assert.True(t, errors.IsKind(err, errors.ErrNotImplemented))
		}},
		{name: "value", predicate: "qty + 1", check: func(t *testing.T, err error) {
			assert.ErrorContains(t, err, "parse error")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Filter(context.Background(), tbl, tt.predicate)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMask(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	mask, err := eng.Mask(context.Background(), tbl, "item = item")
	require.NoError(t, err)
	defer mask.Release()
	assert.Equal(t, 5, mask.Count())

	mask2, err := eng.Mask(context.Background(), tbl, "qty > 2")
	require.NoError(t, err)
	defer mask2.Release()
	assert.Equal(t, []bool{true, false, false, true, false}, mask2.Bools())
}

func TestDerive(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	out, err := eng.Derive(context.Background(), tbl, "total", "qty * price")
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, 5, out.NumColumns())
	total, err := out.ColumnByName("total")
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnTypeFloat, total.Type())

	values, valid, err := data.Values[float64](total)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true, true}, valid)
	assert.Equal(t, 6.0, values[0])
	assert.Equal(t, 20.0, values[4])

	// the source table is untouched
	assert.Equal(t, 4, tbl.NumColumns())
}

func TestDeriveLiteralAndReference(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	out, err := eng.Derive(context.Background(), tbl, "one", "1")
	require.NoError(t, err)
	defer out.Release()
	one, err := out.ColumnByName("one")
	require.NoError(t, err)
	values, _, err := data.Values[int64](one)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, 1, 1, 1}, values)

	out2, err := eng.Derive(context.Background(), tbl, "label", "item")
	require.NoError(t, err)
	defer out2.Release()
	label, err := out2.ColumnByName("label")
	require.NoError(t, err)
	src, err := tbl.ColumnByName("item")
	require.NoError(t, err)
	assert.Same(t, src.Chunk(0), label.Chunk(0))
}

func TestDeriveErrors(t *testing.T) {
	eng, tbl, _, done := newTestEngine(t)
	defer done()

	_, err := eng.Derive(context.Background(), tbl, "price", "qty + 1")
	assert.ErrorContains(t, err, "price")

	_, err = eng.Derive(context.Background(), tbl, "ratio", "qty / 0")
	assert.True(t, errors.IsKind(err, errors.ErrDivisionByZero))

	_, err = eng.Derive(context.Background(), tbl, "flag", "qty > 1")
	assert.ErrorContains(t, err, "expected a value")
}
