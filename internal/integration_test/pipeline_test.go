package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/schema"
	"github.com/leengari/lquery/internal/engine"
	"github.com/leengari/lquery/internal/spreadsheet"
	"github.com/leengari/lquery/internal/testutil"
)

// TestSpreadsheetPipeline imports a workbook, derives, filters and sorts, then exports
func TestSpreadsheetPipeline(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ctx := context.Background()
	eng := engine.New(nil, engine.WithAllocator(mem))

	orders := importOrders(t, mem)
	defer orders.Release()
	testutil.AssertRowCount(t, orders, 4, "import")
	testutil.AssertColumnCount(t, orders, 5, "import")
	testutil.AssertNullValue(t, orders, "amount", 3, "import")

	withTotal, err := eng.Derive(ctx, orders, "total", "amount * qty")
	testutil.AssertNoError(t, err, "derive")
	defer withTotal.Release()
	testutil.AssertColumnExists(t, withTotal, "total", "derive")
	testutil.AssertColumnNotExists(t, orders, "total", "derive leaves the input untouched")
	testutil.AssertNullValue(t, withTotal, "total", 3, "derive")

	big, err := eng.Filter(ctx, withTotal, "total > 50")
	testutil.AssertNoError(t, err, "filter")
	defer big.Release()
	testutil.AssertRowCount(t, big, 3, "filter drops the null total")

	sorted, err := eng.Sort(ctx, big, "total DESC")
	testutil.AssertNoError(t, err, "sort")
	defer sorted.Release()
	testutil.AssertColumnValues(t, sorted, "id", []int64{1, 2, 3}, "sort")
	testutil.AssertColumnValues(t, sorted, "product", []string{"Laptop", "Mouse", "Keyboard"}, "sort")

	var buf bytes.Buffer
	err = spreadsheet.Write(&buf, sorted, spreadsheet.WriteOptions{Header: true})
	testutil.AssertNoError(t, err, "export")

	specs := append(append([]spreadsheet.ColumnSpec{}, orderSpecs...), spreadsheet.ColumnSpec{Type: schema.ColumnTypeFloat})
	back, err := spreadsheet.Read(&buf, spreadsheet.ReadOptions{Types: specs, Header: spreadsheet.FirstRowAsHeaders{}, Allocator: mem})
	testutil.AssertNoError(t, err, "re-import")
	defer back.Release()
	testutil.AssertRowCount(t, back, 3, "re-import")
	testutil.AssertColumnValues(t, back, "qty", []int64{1, 3, 1}, "re-import")
	testutil.AssertColumnValues(t, back, "total", []float64{999.99, 76.5, 75}, "re-import")
}

// TestPipelineThroughFiles runs the same flow against workbooks on disk
func TestPipelineThroughFiles(t *testing.T) {
	ctx := context.Background()
	eng := engine.New(nil)
	dir := t.TempDir()

	users := testutil.CreateUsersTable(t, memory.DefaultAllocator)
	defer users.Release()

	in := filepath.Join(dir, "users.xlsx")
	if err := spreadsheet.WriteFile(in, users, spreadsheet.WriteOptions{Header: true}); err != nil {
		t.Fatalf("Failed to write %s: %v", in, err)
	}

	loaded, err := spreadsheet.ReadFile(in, spreadsheet.ReadOptions{
		Types: []spreadsheet.ColumnSpec{
			{Type: schema.ColumnTypeInt},
			{Type: schema.ColumnTypeText},
			{Type: schema.ColumnTypeInt, Nullable: true},
		},
		Header: spreadsheet.FirstRowAsHeaders{},
	})
	if err != nil {
		t.Fatalf("Failed to read %s: %v", in, err)
	}
	defer loaded.Release()

	sorted, err := eng.Sort(ctx, loaded, "age ASC NULLS LAST")
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	defer sorted.Release()
	testutil.AssertColumnValues(t, sorted, "username", []string{"bob", "alice", "charlie"}, "sort by age")
	testutil.AssertNullValue(t, sorted, "age", 2, "nulls last")

	out := filepath.Join(dir, "sorted.xlsx")
	if err := spreadsheet.WriteFile(out, sorted, spreadsheet.WriteOptions{Header: true, SheetName: "Sorted"}); err != nil {
		t.Fatalf("Failed to write %s: %v", out, err)
	}

	reread, err := spreadsheet.ReadFile(out, spreadsheet.ReadOptions{Header: spreadsheet.FirstRowAsHeaders{}})
	if err != nil {
		t.Fatalf("Failed to read %s: %v", out, err)
	}
	defer reread.Release()
	if reread.Name() != "Sorted" {
		t.Errorf("Expected table name Sorted, got %s", reread.Name())
	}
	testutil.AssertColumnValues(t, reread, "username", []string{"bob", "alice", "charlie"}, "text by default")
}

// TestPipelineErrors checks that failures surface without touching the input
func TestPipelineErrors(t *testing.T) {
	ctx := context.Background()
	eng := engine.New(nil)

	orders := testutil.CreateOrdersTable(t, memory.DefaultAllocator)
	defer orders.Release()

	tests := []struct {
		name string
		run  func() (*data.Table, error)
	}{
		{"unknown sort column", func() (*data.Table, error) { return eng.Sort(ctx, orders, "missing") }},
		{"unknown filter column", func() (*data.Table, error) { return eng.Filter(ctx, orders, "missing > 1") }},
		{"value as predicate", func() (*data.Table, error) { return eng.Filter(ctx, orders, "qty + 1") }},
		{"predicate as value", func() (*data.Table, error) { return eng.Derive(ctx, orders, "big", "qty > 1") }},
		{"duplicate column", func() (*data.Table, error) { return eng.Derive(ctx, orders, "qty", "qty * 2") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.run()
			testutil.AssertError(t, err, tt.name)
			if out != nil {
				out.Release()
				t.Errorf("%s: expected no table", tt.name)
			}
		})
	}
	testutil.AssertColumnCount(t, orders, 5, "input unchanged")
}
