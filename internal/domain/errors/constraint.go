package errors

import (
	"fmt"
	"strings"
)

// Represents a violation of a column constraint while building a column or table
// (not null, type mismatch, length mismatch)
type ConstraintError struct {
	Table      string      // table name (empty for a free standing column)
	Column     string      // column name
	Value      interface{} // offending value (may be nil)
	Constraint string      // "not_null", "type_mismatch", "length"
	Reason     string      // human-readable explanation (optional)
	RowIndex   int         // row number (0-based) where violation occurred (-1 if unknown)
}

func (e *ConstraintError) Error() string {
	var parts []string

	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))
	} else {
		parts = append(parts, fmt.Sprintf("constraint violation in column %s", e.Column))
	}

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.RowIndex))
	}

	return strings.Join(parts, " - ")
}

func NewNotNullViolation(table, column string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Constraint: "not_null",
		Reason:     "null in a NOT NULL column",
		RowIndex:   rowIndex,
	}
}

func NewTypeMismatch(table, column string, value interface{}, expectedType string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "type_mismatch",
		Reason:     fmt.Sprintf("expected type %s", expectedType),
		RowIndex:   -1,
	}
}
