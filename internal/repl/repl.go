// Package repl is an interactive shell over one loaded table.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/engine"
	"github.com/leengari/lquery/internal/parser"
	"github.com/leengari/lquery/internal/parser/ast"
	"github.com/leengari/lquery/internal/spreadsheet"
)

const defaultShowRows = 20

const help = `Commands:
  sort <keys>            sort rows, e.g. sort price DESC, name NULLS LAST
  where <predicate>      keep matching rows, e.g. where qty * price > 100
  count <predicate>      count matching rows
  eval <name> = <expr>   append a computed column
  explain <predicate>    print the parsed expression tree
  show [n]               print the first n rows (default 20)
  schema                 list columns and types
  save <path>            write the current table to an xlsx file
  reset                  go back to the loaded table
  exit, \q               quit`

// Session holds the table a shell works on. Every command replaces the
// current table; the loaded table is kept for reset.
type Session struct {
	eng       *engine.Engine
	original  *data.Table
	current   *data.Table
	out       io.Writer
	writeOpts spreadsheet.WriteOptions
}

// NewSession starts from table; the session retains it
func NewSession(eng *engine.Engine, table *data.Table, out io.Writer) *Session {
	table.Retain()
	table.Retain()
	return &Session{
		eng:      eng,
		original: table,
		current:  table,
		out:      out,
		writeOpts: spreadsheet.WriteOptions{
			SheetName: eng.Config().Spreadsheet.SheetName,
			Header:    eng.Config().Spreadsheet.Header,
		},
	}
}

// Current is the table after the last command
func (s *Session) Current() *data.Table { return s.current }

// Close releases the tables held by the session
func (s *Session) Close() {
	s.current.Release()
	s.original.Release()
}

// Start reads commands from in until exit or end of input
func Start(ctx context.Context, eng *engine.Engine, table *data.Table, in io.Reader, out io.Writer) error {
	s := NewSession(eng, table, out)
	defer s.Close()

	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Welcome to lquery")
	fmt.Fprintf(out, "Loaded table %q with %d rows and %d columns.\n", table.Name(), table.NumRows(), table.NumColumns())
	fmt.Fprintln(out, "Type 'help' for commands, 'exit' or '\\q' to quit.")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line
func (s *Session) Execute(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "exit", "\\q":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, help)
	case "sort":
		out, err := s.eng.Sort(ctx, s.current, rest)
		if err != nil {
			return false, err
		}
		s.replace(out)
		fmt.Fprintf(s.out, "sorted %d rows\n", out.NumRows())
	case "where":
		out, err := s.eng.Filter(ctx, s.current, rest)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "kept %d of %d rows\n", out.NumRows(), s.current.NumRows())
		s.replace(out)
	case "count":
		mask, err := s.eng.Mask(ctx, s.current, rest)
		if err != nil {
			return false, err
		}
		defer mask.Release()
		fmt.Fprintf(s.out, "%d\n", mask.Count())
	case "eval":
		name, expr, ok := strings.Cut(rest, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return false, fmt.Errorf("usage: eval <name> = <expr>")
		}
		out, err := s.eng.Derive(ctx, s.current, name, strings.TrimSpace(expr))
		if err != nil {
			return false, err
		}
		s.replace(out)
		col, _ := out.ColumnByName(name)
		fmt.Fprintf(s.out, "added %s\n", col)
	case "explain":
		pred, names, err := parser.ParsePredicate(rest)
		if err != nil {
			return false, err
		}
		fmt.Fprint(s.out, ast.Print(pred))
		for id, name := range names {
			fmt.Fprintf(s.out, "  #%d = %s\n", id, name)
		}
	case "show":
		limit := defaultShowRows
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return false, fmt.Errorf("show: invalid row count %q", rest)
			}
			limit = n
		}
		return false, PrintResult(s.out, s.current, limit)
	case "schema":
		for _, col := range s.current.Columns() {
			fmt.Fprintf(s.out, "  %s\n", col.Def())
		}
	case "save":
		if rest == "" {
			return false, fmt.Errorf("usage: save <path>")
		}
		if err := spreadsheet.WriteFile(rest, s.current, s.writeOpts); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "saved %d rows to %s\n", s.current.NumRows(), rest)
	case "reset":
		s.original.Retain()
		s.replace(s.original)
		fmt.Fprintln(s.out, "reset to loaded table")
	default:
		return false, fmt.Errorf("unknown command %q, type 'help' for commands", command)
	}
	return false, nil
}

// replace takes ownership of t
func (s *Session) replace(t *data.Table) {
	s.current.Release()
	s.current = t
}
