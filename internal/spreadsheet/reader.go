package spreadsheet

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/tealeg/xlsx"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/schema"
)

// ReadFile imports the first sheet of an xlsx file
func ReadFile(path string, opts ReadOptions) (*data.Table, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %q: %w", path, err)
	}
	table, err := readWorkbook(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %q: %w", path, err)
	}
	slog.Debug("spreadsheet imported",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()),
	)
	return table, nil
}

// Read imports the first sheet of an xlsx document
func Read(r io.Reader, opts ReadOptions) (*data.Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	file, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	table, err := readWorkbook(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	return table, nil
}

func readWorkbook(file *xlsx.File, opts ReadOptions) (*data.Table, error) {
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := file.Sheets[0]

	rowCount := sheet.MaxRow
	columnCount := sheet.MaxCol
	if len(opts.Types) > columnCount {
		columnCount = len(opts.Types)
	}

	specs := make([]ColumnSpec, columnCount)
	for i := range specs {
		specs[i] = textSpec
		if i < len(opts.Types) {
			specs[i] = opts.Types[i]
		}
	}

	policy := opts.header()
	names, err := columnNames(columnCount, policy, func(column int) string {
		if cell := cellAt(sheet, 0, column); cell != nil {
			return cell.String()
		}
		return ""
	})
	if err != nil {
		return nil, err
	}

	firstRow := 0
	if _, ok := policy.(FirstRowAsHeaders); ok && rowCount > 0 {
		firstRow = 1
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = sheet.Name
	}

	mem := opts.allocator()
	columns := make([]*data.Column, 0, columnCount)
	defer func() {
		for _, c := range columns {
			c.Release()
		}
	}()

	for column := 0; column < columnCount; column++ {
		def := schema.Column{Name: names[column], Type: specs[column].Type, NotNull: !specs[column].Nullable}
		col, err := readColumn(mem, sheet, tableName, def, column, firstRow, rowCount)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return data.NewTableFromColumns(tableName, columns...)
}

func readColumn(mem memory.Allocator, sheet *xlsx.Sheet, table string, def schema.Column, column, firstRow, rowCount int) (*data.Column, error) {
	b, err := newColumnBuilder(mem, table, def)
	if err != nil {
		return nil, err
	}
	defer b.Release()

	b.Reserve(rowCount - firstRow)
	for row := firstRow; row < rowCount; row++ {
		cell := cellAt(sheet, row, column)
		if cell == nil {
			b.AddMissing()
			continue
		}
		if err := b.AddFromCell(cell, row-firstRow); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// cellAt returns nil for cells outside the used range
func cellAt(sheet *xlsx.Sheet, row, column int) *xlsx.Cell {
	if row >= len(sheet.Rows) || sheet.Rows[row] == nil {
		return nil
	}
	cells := sheet.Rows[row].Cells
	if column >= len(cells) {
		return nil
	}
	return cells[column]
}
