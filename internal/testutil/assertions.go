package testutil

import (
	"reflect"
	"testing"

	"github.com/leengari/lquery/internal/domain/data"
)

// AssertRowCount checks if the table has the expected number of rows
func AssertRowCount(t *testing.T, table *data.Table, expected int, context string) {
	t.Helper()
	if actual := table.NumRows(); actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnCount checks if the table has the expected number of columns
func AssertColumnCount(t *testing.T, table *data.Table, expected int, context string) {
	t.Helper()
	if actual := table.NumColumns(); actual != expected {
		t.Errorf("%s: expected %d columns, got %d", context, expected, actual)
	}
}

// AssertColumnExists checks if a column exists in the table
func AssertColumnExists(t *testing.T, table *data.Table, column, context string) {
	t.Helper()
	if table.Schema().ColumnIndex(column) < 0 {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a column does not exist in the table
func AssertColumnNotExists(t *testing.T, table *data.Table, column, context string) {
	t.Helper()
	if table.Schema().ColumnIndex(column) >= 0 {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertNullValue checks that a row of the named column is null
func AssertNullValue(t *testing.T, table *data.Table, column string, row int, context string) {
	t.Helper()
	if !isNull(t, table, column, row, context) {
		t.Errorf("%s: expected NULL in %s row %d", context, column, row)
	}
}

// AssertNotNullValue checks that a row of the named column is set
func AssertNotNullValue(t *testing.T, table *data.Table, column string, row int, context string) {
	t.Helper()
	if isNull(t, table, column, row, context) {
		t.Errorf("%s: expected non-NULL value in %s row %d", context, column, row)
	}
}

// AssertColumnValues compares the values of the named column, ignoring null slots
func AssertColumnValues[T data.Element](t *testing.T, table *data.Table, column string, expected []T, context string) {
	t.Helper()
	col, err := table.ColumnByName(column)
	if err != nil {
		t.Fatalf("%s: %v", context, err)
	}
	values, valid, err := data.Values[T](col)
	if err != nil {
		t.Fatalf("%s: %v", context, err)
	}
	for i := range values {
		if valid != nil && !valid[i] {
			var zero T
			values[i] = zero
		}
	}
	if !reflect.DeepEqual(values, expected) {
		t.Errorf("%s: column %s expected %v, got %v", context, column, expected, values)
	}
}

func isNull(t *testing.T, table *data.Table, column string, row int, context string) bool {
	t.Helper()
	col, err := table.ColumnByName(column)
	if err != nil {
		t.Fatalf("%s: %v", context, err)
	}
	null, err := col.IsNull(row)
	if err != nil {
		t.Fatalf("%s: %v", context, err)
	}
	return null
}
