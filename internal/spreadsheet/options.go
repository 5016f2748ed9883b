// Package spreadsheet imports xlsx sheets into typed column tables and
// exports tables back to xlsx.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/schema"
)

// DefaultSheetName is the title of the sheet written by Write
const DefaultSheetName = "Table"

// ColumnSpec is the target type of one imported column
type ColumnSpec struct {
	Type     schema.ColumnType
	Nullable bool
}

// textSpec is used for columns without type information
var textSpec = ColumnSpec{Type: schema.ColumnTypeText, Nullable: false}

func (s ColumnSpec) String() string {
	if s.Nullable {
		return s.Type.String() + "?"
	}
	return s.Type.String()
}

// ParseColumnSpecs parses a comma separated type list such as "INT,FLOAT?,TEXT".
// A trailing "?" marks the column nullable.
func ParseColumnSpecs(s string) ([]ColumnSpec, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	specs := make([]ColumnSpec, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		nullable := strings.HasSuffix(part, "?")
		part = strings.TrimSuffix(part, "?")
		t, err := schema.ParseColumnType(part)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		specs = append(specs, ColumnSpec{Type: t, Nullable: nullable})
	}
	return specs, nil
}

// ReadOptions controls Read
type ReadOptions struct {
	// Types lists the target type per column; columns past the end are non-nullable TEXT
	Types []ColumnSpec
	// Header decides column names; nil means GeneratedNames
	Header HeaderPolicy
	// TableName names the resulting table; the sheet name is used when empty
	TableName string
	// Allocator for the column buffers; memory.DefaultAllocator when nil
	Allocator memory.Allocator
}

func (o ReadOptions) allocator() memory.Allocator {
	if o.Allocator == nil {
		return memory.DefaultAllocator
	}
	return o.Allocator
}

func (o ReadOptions) header() HeaderPolicy {
	if o.Header == nil {
		return GeneratedNames{}
	}
	return o.Header
}

// WriteOptions controls Write
type WriteOptions struct {
	// SheetName defaults to DefaultSheetName
	SheetName string
	// Header writes the column names as the first row
	Header bool
}

func (o WriteOptions) sheetName() string {
	if o.SheetName == "" {
		return DefaultSheetName
	}
	return o.SheetName
}
