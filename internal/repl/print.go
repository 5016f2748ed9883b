package repl

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
)

// PrintResult writes up to limit rows of t as an aligned table
func PrintResult(w io.Writer, t *data.Table, limit int) error {
	rows := min(limit, t.NumRows())

	cells := make([][]string, t.NumColumns())
	for i, col := range t.Columns() {
		values, err := formatColumn(col, rows)
		if err != nil {
			return err
		}
		cells[i] = values
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header with types
	for i, col := range t.Columns() {
		fmt.Fprintf(tw, "%s (%s)", col.Name(), col.Type())
		if i < t.NumColumns()-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Separator
	for i := range t.Columns() {
		fmt.Fprintf(tw, "---")
		if i < t.NumColumns()-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Rows
	for row := 0; row < rows; row++ {
		for i := range cells {
			fmt.Fprint(tw, cells[i][row])
			if i < len(cells)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rows < t.NumRows() {
		fmt.Fprintf(w, "(%d of %d rows)\n", rows, t.NumRows())
	} else {
		fmt.Fprintf(w, "(%d rows)\n", t.NumRows())
	}
	return nil
}

// formatColumn renders the first n rows of col
func formatColumn(col *data.Column, n int) ([]string, error) {
	out := make([]string, 0, n)
	onNull := func(row int) {
		if row < n {
			out = append(out, "NULL")
		}
	}
	return dispatch.OnType(col.Type(), dispatch.TypeCases[[]string]{
		Int: func() ([]string, error) {
			err := data.Iterate(col, func(row int, v int64) {
				if row < n {
					out = append(out, strconv.FormatInt(v, 10))
				}
			}, onNull)
			return out, err
		},
		Float: func() ([]string, error) {
			err := data.Iterate(col, func(row int, v float64) {
				if row < n {
					out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
				}
			}, onNull)
			return out, err
		},
		Text: func() ([]string, error) {
			err := data.Iterate(col, func(row int, v string) {
				if row < n {
					out = append(out, v)
				}
			}, onNull)
			return out, err
		},
	})
}
