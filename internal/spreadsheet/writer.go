package spreadsheet

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tealeg/xlsx"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
)

// WriteFile exports table to an xlsx file at path
func WriteFile(path string, table *data.Table, opts WriteOptions) error {
	file, err := workbook(table, opts)
	if err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}
	slog.Debug("spreadsheet exported",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()),
	)
	return nil
}

// Write exports table as an xlsx document with a single sheet
func Write(w io.Writer, table *data.Table, opts WriteOptions) error {
	file, err := workbook(table, opts)
	if err != nil {
		return err
	}
	return file.Write(w)
}

// workbook fills one sheet column by column; null values leave the cell blank
func workbook(table *data.Table, opts WriteOptions) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(opts.sheetName())
	if err != nil {
		return nil, err
	}

	offset := 0
	if opts.Header {
		offset = 1
	}
	for i := 0; i < table.NumRows()+offset; i++ {
		sheet.AddRow()
	}

	for column, col := range table.Columns() {
		if opts.Header {
			cellFor(sheet, 0, column).SetString(col.Name())
		}
		if err := writeColumn(sheet, col, column, offset); err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name(), err)
		}
	}
	return file, nil
}

func writeColumn(sheet *xlsx.Sheet, col *data.Column, column, offset int) error {
	blank := func(row int) { cellFor(sheet, row+offset, column) }
	_, err := dispatch.OnType(col.Type(), dispatch.TypeCases[struct{}]{
		Int: func() (struct{}, error) {
			return struct{}{}, data.Iterate(col, func(row int, v int64) {
				cellFor(sheet, row+offset, column).SetInt64(v)
			}, blank)
		},
		Float: func() (struct{}, error) {
			return struct{}{}, data.Iterate(col, func(row int, v float64) {
				cellFor(sheet, row+offset, column).SetFloat(v)
			}, blank)
		},
		Text: func() (struct{}, error) {
			return struct{}{}, data.Iterate(col, func(row int, v string) {
				cellFor(sheet, row+offset, column).SetString(v)
			}, blank)
		},
	})
	return err
}

// cellFor returns the cell at row, column, adding cells to the row as needed
func cellFor(sheet *xlsx.Sheet, row, column int) *xlsx.Cell {
	r := sheet.Rows[row]
	for len(r.Cells) <= column {
		r.AddCell()
	}
	return r.Cells[column]
}
