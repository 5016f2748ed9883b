package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// ColumnType is the logical type id of a column.
// It is the primary tag the dispatcher switches on.
type ColumnType string

const (
	ColumnTypeInt   ColumnType = "INT"
	ColumnTypeFloat ColumnType = "FLOAT"
	ColumnTypeText  ColumnType = "TEXT"
)

// ColumnTypes lists every supported logical type in declaration order
var ColumnTypes = []ColumnType{ColumnTypeInt, ColumnTypeFloat, ColumnTypeText}

// ArrowType returns the physical arrow type backing the logical type
func (t ColumnType) ArrowType() (arrow.DataType, error) {
	switch t {
	case ColumnTypeInt:
		return arrow.PrimitiveTypes.Int64, nil
	case ColumnTypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case ColumnTypeText:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("unsupported column type %q", string(t))
	}
}

// Valid reports whether t is one of the supported logical types
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnTypeInt, ColumnTypeFloat, ColumnTypeText:
		return true
	}
	return false
}

func (t ColumnType) String() string {
	return string(t)
}

// ParseColumnType accepts the canonical names and a few common aliases
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INT64", "INTEGER", "BIGINT":
		return ColumnTypeInt, nil
	case "FLOAT", "FLOAT64", "DOUBLE", "REAL":
		return ColumnTypeFloat, nil
	case "TEXT", "STRING", "VARCHAR":
		return ColumnTypeText, nil
	default:
		return "", fmt.Errorf("unknown column type %q", s)
	}
}

// FromArrow maps an arrow type back to its logical type
func FromArrow(dt arrow.DataType) (ColumnType, error) {
	switch dt.ID() {
	case arrow.INT64:
		return ColumnTypeInt, nil
	case arrow.FLOAT64:
		return ColumnTypeFloat, nil
	case arrow.STRING:
		return ColumnTypeText, nil
	default:
		return "", fmt.Errorf("arrow type %s has no logical column type", dt)
	}
}

// Column describes one column of a table
type Column struct {
	Name    string     `json:"name" mapstructure:"name"`
	Type    ColumnType `json:"type" mapstructure:"type"`
	NotNull bool       `json:"not_null" mapstructure:"not_null"`
}

// Nullable reports whether the column may hold nulls
func (c Column) Nullable() bool {
	return !c.NotNull
}

// ArrowField converts the column definition into an arrow field
func (c Column) ArrowField() (arrow.Field, error) {
	dt, err := c.Type.ArrowType()
	if err != nil {
		return arrow.Field{}, fmt.Errorf("column %q: %w", c.Name, err)
	}
	return arrow.Field{Name: c.Name, Type: dt, Nullable: c.Nullable()}, nil
}

func (c Column) String() string {
	if c.NotNull {
		return fmt.Sprintf("%s %s NOT NULL", c.Name, c.Type)
	}
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}
