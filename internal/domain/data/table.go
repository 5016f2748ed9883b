package data

import (
	"fmt"

	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// Table is an ordered set of columns sharing one row count
type Table struct {
	schema  *schema.TableSchema
	columns []*Column
	rows    int
}

// NewTable checks the columns against the schema and retains them.
// Every column must match its schema definition and have the same length.
func NewTable(s *schema.TableSchema, columns []*Column) (*Table, error) {
	if len(columns) != len(s.Columns) {
		return nil, fmt.Errorf("table %q: schema has %d columns, got %d", s.TableName, len(s.Columns), len(columns))
	}

	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for i, col := range columns {
		def := s.Columns[i]
		if col.Name() != def.Name {
			return nil, fmt.Errorf("table %q: column %d is %q, schema expects %q", s.TableName, i, col.Name(), def.Name)
		}
		if col.Type() != def.Type {
			return nil, errors.NewTypeMismatch(s.TableName, def.Name, col.Type().String(), def.Type.String())
		}
		if def.NotNull && col.NullN() > 0 {
			return nil, errors.NewNotNullViolation(s.TableName, def.Name, -1)
		}
		if col.Len() != rows {
			return nil, errors.ErrLengthMismatch.New(def.Name, col.Len(), rows)
		}
	}

	cols := make([]*Column, len(columns))
	for i, col := range columns {
		col.Retain()
		cols[i] = col
	}
	return &Table{schema: s, columns: cols, rows: rows}, nil
}

// NewTableFromColumns derives the schema from the column definitions
func NewTableFromColumns(name string, columns ...*Column) (*Table, error) {
	defs := make([]schema.Column, len(columns))
	for i, col := range columns {
		defs[i] = col.Def()
	}
	s, err := schema.NewTableSchema(name, defs...)
	if err != nil {
		return nil, err
	}
	return NewTable(s, columns)
}

func (t *Table) Schema() *schema.TableSchema { return t.schema }
func (t *Table) Name() string                { return t.schema.TableName }
func (t *Table) NumRows() int                { return t.rows }
func (t *Table) NumColumns() int             { return len(t.columns) }
func (t *Table) Column(i int) *Column        { return t.columns[i] }

// Columns returns the table's columns; the slice must not be modified
func (t *Table) Columns() []*Column { return t.columns }

// ColumnByName looks a column up by name
func (t *Table) ColumnByName(name string) (*Column, error) {
	i := t.schema.ColumnIndex(name)
	if i < 0 {
		return nil, errors.ErrUnknownColumn.New(name)
	}
	return t.columns[i], nil
}

// WithColumn returns a new table with col appended; storage is shared
func (t *Table) WithColumn(col *Column) (*Table, error) {
	s, err := t.schema.WithColumn(col.Def())
	if err != nil {
		return nil, err
	}
	cols := append(append([]*Column(nil), t.columns...), col)
	return NewTable(s, cols)
}

func (t *Table) Retain() {
	for _, col := range t.columns {
		col.Retain()
	}
}

func (t *Table) Release() {
	for _, col := range t.columns {
		col.Release()
	}
}
