package repl

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/schema"
	"github.com/leengari/lquery/internal/engine"
	"github.com/leengari/lquery/internal/spreadsheet"
)

func stockTable(t *testing.T, mem memory.Allocator) *data.Table {
	t.Helper()
	name, err := data.FromValues(mem, schema.Column{Name: "name", Type: schema.ColumnTypeText, NotNull: true}, []string{"bolt", "nut", "gear"}, nil)
	require.NoError(t, err)
	defer name.Release()
	qty, err := data.FromValues(mem, schema.Column{Name: "qty", Type: schema.ColumnTypeInt}, []int64{40, 0, 7}, []bool{true, false, true})
	require.NoError(t, err)
	defer qty.Release()
	price, err := data.FromValues(mem, schema.Column{Name: "price", Type: schema.ColumnTypeFloat, NotNull: true}, []float64{0.25, 0.1, 3.5}, nil)
	require.NoError(t, err)
	defer price.Release()

	tbl, err := data.NewTableFromColumns("stock", name, qty, price)
	require.NoError(t, err)
	return tbl
}

func newSession(t *testing.T) (*Session, *bytes.Buffer, func()) {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	eng := engine.New(nil, engine.WithAllocator(mem))
	tbl := stockTable(t, mem)
	var out bytes.Buffer
	s := NewSession(eng, tbl, &out)
	tbl.Release()
	return s, &out, func() {
		s.Close()
		mem.AssertSize(t, 0)
	}
}

func TestPrintResult(t *testing.T) {
	tbl := stockTable(t, memory.DefaultAllocator)
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, PrintResult(&buf, tbl, 2))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "name (TEXT)  qty (INT)  price (FLOAT)", lines[0])
	assert.Equal(t, "---          ---        ---", lines[1])
	assert.Equal(t, "bolt         40         0.25", lines[2])
	assert.Equal(t, "nut          NULL       0.1", lines[3])
	assert.Equal(t, "(2 of 3 rows)", lines[4])
}

func TestSessionCommands(t *testing.T) {
	s, out, done := newSession(t)
	defer done()
	ctx := context.Background()

	_, err := s.Execute(ctx, "sort price DESC")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "sorted 3 rows")
	first, _, err := data.Values[string](s.Current().Column(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"gear", "bolt", "nut"}, first)

	_, err = s.Execute(ctx, "eval value = qty * price")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Current().NumColumns())

	out.Reset()
	_, err = s.Execute(ctx, "count value > 5")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())

	_, err = s.Execute(ctx, "where value > 5")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Current().NumRows())

	out.Reset()
	_, err = s.Execute(ctx, "schema")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "value")

	_, err = s.Execute(ctx, "reset")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Current().NumRows())
	assert.Equal(t, 3, s.Current().NumColumns())

	quit, err := s.Execute(ctx, "exit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestSessionErrorsKeepTable(t *testing.T) {
	s, _, done := newSession(t)
	defer done()
	ctx := context.Background()
	before := s.Current()

	for _, line := range []string{"sort missing", "where name + 1 > 0", "eval = 1", "show many", "frobnicate", "save"} {
		_, err := s.Execute(ctx, line)
		assert.Error(t, err, line)
	}
	assert.Same(t, before, s.Current())
}

func TestExplain(t *testing.T) {
	s, out, done := newSession(t)
	defer done()

	_, err := s.Execute(context.Background(), "explain qty > 2 AND name = name")
	require.NoError(t, err)
	text := out.String()
	assert.True(t, strings.HasPrefix(text, "PredicateOperation(And)\n"), text)
	assert.Contains(t, text, "  #0 = qty\n")
	assert.Contains(t, text, "  #1 = name\n")

	_, err = s.Execute(context.Background(), "explain qty +")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	s, _, done := newSession(t)
	defer done()

	path := filepath.Join(t.TempDir(), "out.xlsx")
	_, err := s.Execute(context.Background(), "save "+path)
	require.NoError(t, err)

	back, err := spreadsheet.ReadFile(path, spreadsheet.ReadOptions{})
	require.NoError(t, err)
	defer back.Release()
	assert.Equal(t, 3, back.NumRows())
}

func TestStart(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := stockTable(t, mem)
	defer tbl.Release()

	in := strings.NewReader("show 1\nbogus\n\\q\nshow\n")
	var out bytes.Buffer
	require.NoError(t, Start(context.Background(), engine.New(nil, engine.WithAllocator(mem)), tbl, in, &out))

	text := out.String()
	assert.Contains(t, text, "Welcome to lquery")
	assert.Contains(t, text, "(1 of 3 rows)")
	assert.Contains(t, text, `Error: unknown command "bogus"`)
	assert.Equal(t, 1, strings.Count(text, "of 3 rows"), "input after \\q is not executed")
}
