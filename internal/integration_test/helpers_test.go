package integration

import (
	"bytes"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/schema"
	"github.com/leengari/lquery/internal/engine"
	"github.com/leengari/lquery/internal/spreadsheet"
	"github.com/leengari/lquery/internal/testutil"
)

// MockObserver records events for testing
type MockObserver struct {
	mu     sync.Mutex
	Events []engine.Event
}

func (m *MockObserver) OnEvent(event engine.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

var orderSpecs = []spreadsheet.ColumnSpec{
	{Type: schema.ColumnTypeInt},
	{Type: schema.ColumnTypeInt},
	{Type: schema.ColumnTypeText},
	{Type: schema.ColumnTypeFloat, Nullable: true},
	{Type: schema.ColumnTypeInt},
}

// setupOrdersWorkbook writes the orders fixture to an in-memory workbook
func setupOrdersWorkbook(t *testing.T, mem memory.Allocator) *bytes.Buffer {
	t.Helper()
	orders := testutil.CreateOrdersTable(t, mem)
	defer orders.Release()

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, orders, spreadsheet.WriteOptions{Header: true}); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return &buf
}

func importOrders(t *testing.T, mem memory.Allocator) *data.Table {
	t.Helper()
	buf := setupOrdersWorkbook(t, mem)
	table, err := spreadsheet.Read(buf, spreadsheet.ReadOptions{
		Types:     orderSpecs,
		Header:    spreadsheet.FirstRowAsHeaders{},
		TableName: "orders",
		Allocator: mem,
	})
	if err != nil {
		t.Fatalf("Failed to import workbook: %v", err)
	}
	return table
}
