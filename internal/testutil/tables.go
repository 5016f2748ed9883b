// Package testutil builds fixture tables and checks results in tests.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/schema"
)

// Column builds a column or fails the test. A nil valid means no nulls.
func Column[T data.Element](t *testing.T, mem memory.Allocator, def schema.Column, values []T, valid []bool) *data.Column {
	t.Helper()
	col, err := data.FromValues(mem, def, values, valid)
	if err != nil {
		t.Fatalf("building column %q: %v", def.Name, err)
	}
	return col
}

// Table assembles columns into a table; the table holds its own references
func Table(t *testing.T, name string, columns ...*data.Column) *data.Table {
	t.Helper()
	tbl, err := data.NewTableFromColumns(name, columns...)
	if err != nil {
		t.Fatalf("building table %q: %v", name, err)
	}
	for _, col := range columns {
		col.Release()
	}
	return tbl
}

// CreateUsersTable: id INT NOT NULL, username TEXT NOT NULL, age INT (charlie has none)
func CreateUsersTable(t *testing.T, mem memory.Allocator) *data.Table {
	t.Helper()
	return Table(t, "users",
		Column(t, mem, schema.Column{Name: "id", Type: schema.ColumnTypeInt, NotNull: true}, []int64{1, 2, 3}, nil),
		Column(t, mem, schema.Column{Name: "username", Type: schema.ColumnTypeText, NotNull: true}, []string{"alice", "bob", "charlie"}, nil),
		Column(t, mem, schema.Column{Name: "age", Type: schema.ColumnTypeInt}, []int64{31, 27, 0}, []bool{true, true, false}),
	)
}

// CreateOrdersTable: id INT NOT NULL, user_id INT NOT NULL, product TEXT NOT NULL,
// amount FLOAT (order 4 has none), qty INT NOT NULL
func CreateOrdersTable(t *testing.T, mem memory.Allocator) *data.Table {
	t.Helper()
	return Table(t, "orders",
		Column(t, mem, schema.Column{Name: "id", Type: schema.ColumnTypeInt, NotNull: true}, []int64{1, 2, 3, 4}, nil),
		Column(t, mem, schema.Column{Name: "user_id", Type: schema.ColumnTypeInt, NotNull: true}, []int64{1, 1, 2, 2}, nil),
		Column(t, mem, schema.Column{Name: "product", Type: schema.ColumnTypeText, NotNull: true}, []string{"Laptop", "Mouse", "Keyboard", "Cable"}, nil),
		Column(t, mem, schema.Column{Name: "amount", Type: schema.ColumnTypeFloat}, []float64{999.99, 25.50, 75.00, 0}, []bool{true, true, true, false}),
		Column(t, mem, schema.Column{Name: "qty", Type: schema.ColumnTypeInt, NotNull: true}, []int64{1, 3, 1, 10}, nil),
	)
}
