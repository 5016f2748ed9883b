package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// TableSchema represents table metadata: the name and the ordered column definitions
type TableSchema struct {
	TableName string
	Columns   []Column
}

// NewTableSchema validates the column list and returns the schema
func NewTableSchema(name string, columns ...Column) (*TableSchema, error) {
	seen := make(map[string]struct{}, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d of table %q has no name", i, name)
		}
		if _, dup := seen[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q in table %q", col.Name, name)
		}
		if !col.Type.Valid() {
			return nil, fmt.Errorf("column %q of table %q: unsupported type %q", col.Name, name, string(col.Type))
		}
		seen[col.Name] = struct{}{}
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &TableSchema{TableName: name, Columns: cols}, nil
}

// ColumnIndex returns the position of the named column, or -1
func (s *TableSchema) ColumnIndex(name string) int {
	for i, col := range s.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in order
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// WithColumn returns a copy of the schema with col appended
func (s *TableSchema) WithColumn(col Column) (*TableSchema, error) {
	cols := append(append([]Column(nil), s.Columns...), col)
	return NewTableSchema(s.TableName, cols...)
}

// Arrow converts the schema to its arrow representation
func (s *TableSchema) Arrow() (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(s.Columns))
	for i, col := range s.Columns {
		f, err := col.ArrowField()
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	md := arrow.NewMetadata([]string{"table"}, []string{s.TableName})
	return arrow.NewSchema(fields, &md), nil
}
