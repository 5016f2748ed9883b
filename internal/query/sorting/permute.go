package sorting

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
)

// Permute reorders a column. The identity permutation returns the input
// column itself (retained), any other permutation builds a new column.
// The caller releases the result.
func Permute(col *data.Column, perm Permutation, opts ...Option) (*data.Column, error) {
	if perm.Len() != col.Len() {
		return nil, errors.ErrLengthMismatch.New(col.Name(), perm.Len(), col.Len())
	}
	if perm.IsIdentity() {
		col.Retain()
		return col, nil
	}
	return take(col, perm, buildOptions(opts).mem)
}

// Take gathers the rows at indices into a new column. Indices may repeat
// or skip rows.
func Take(col *data.Column, indices []int64, opts ...Option) (*data.Column, error) {
	return take(col, indices, buildOptions(opts).mem)
}

func take(col *data.Column, indices []int64, mem memory.Allocator) (*data.Column, error) {
	return dispatch.OnType(col.Type(), dispatch.TypeCases[*data.Column]{
		Int:   func() (*data.Column, error) { return gather[int64](col, indices, mem) },
		Float: func() (*data.Column, error) { return gather[float64](col, indices, mem) },
		Text:  func() (*data.Column, error) { return gather[string](col, indices, mem) },
	})
}

func gather[T data.Element](col *data.Column, indices []int64, mem memory.Allocator) (*data.Column, error) {
	desc := data.DescriptionFor[T]()
	chunks := col.Chunks()
	readers := make([]func(int) T, len(chunks))
	for i, chunk := range chunks {
		read, err := desc.Reader(chunk)
		if err != nil {
			return nil, err
		}
		readers[i] = read
	}

	b := desc.NewBuilder(mem)
	defer b.Release()
	b.Reserve(len(indices))

	appendRow := dispatch.SelectNullability(col.NullN() != 0,
		func() func(chunk, offset int) {
			return func(chunk, offset int) {
				if chunks[chunk].IsNull(offset) {
					b.AppendNull()
					return
				}
				b.Append(readers[chunk](offset))
			}
		},
		func() func(chunk, offset int) {
			return func(chunk, offset int) {
				b.Append(readers[chunk](offset))
			}
		},
	)

	for _, idx := range indices {
		chunk, offset, err := col.Locate(int(idx))
		if err != nil {
			return nil, err
		}
		appendRow(chunk, offset)
	}

	arr := b.NewArray()
	defer arr.Release()
	return data.NewColumn(col.Def(), arr)
}

// PermuteTable reorders every column of t by perm and rebuilds the table with
// the original schema. The identity permutation returns t itself (retained).
func PermuteTable(t *data.Table, perm Permutation, opts ...Option) (*data.Table, error) {
	return PermuteTableContext(context.Background(), t, perm, opts...)
}

// PermuteTableContext permutes columns concurrently, at most WithParallelism at a time.
// A cancelled context stops columns that have not started yet.
func PermuteTableContext(ctx context.Context, t *data.Table, perm Permutation, opts ...Option) (*data.Table, error) {
	if perm.Len() != t.NumRows() {
		return nil, errors.ErrLengthMismatch.New(t.Name()+" permutation", perm.Len(), t.NumRows())
	}
	if perm.IsIdentity() {
		t.Retain()
		return t, nil
	}

	return takeTable(ctx, t, perm, buildOptions(opts))
}

// TakeTable gathers the rows listed in indices from every column of t, in
// order. Indices may repeat or skip rows.
func TakeTable(ctx context.Context, t *data.Table, indices []int64, opts ...Option) (*data.Table, error) {
	return takeTable(ctx, t, indices, buildOptions(opts))
}

func takeTable(ctx context.Context, t *data.Table, indices []int64, o options) (*data.Table, error) {
	cols := make([]*data.Column, t.NumColumns())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, col := range t.Columns() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := take(col, indices, o.mem)
			if err != nil {
				return fmt.Errorf("gather column %q: %w", col.Name(), err)
			}
			cols[i] = out
			return nil
		})
	}
	err := g.Wait()
	defer releaseColumns(cols)
	if err != nil {
		return nil, err
	}
	return data.NewTable(t.Schema(), cols)
}

func releaseColumns(cols []*data.Column) {
	for _, col := range cols {
		if col != nil {
			col.Release()
		}
	}
}

// SortTable sorts t by keys. Key columns need not belong to t but must have
// its row count.
func SortTable(t *data.Table, keys []SortKey, opts ...Option) (*data.Table, error) {
	return SortTableContext(context.Background(), t, keys, opts...)
}

func SortTableContext(ctx context.Context, t *data.Table, keys []SortKey, opts ...Option) (*data.Table, error) {
	perm, err := SortPermutationContext(ctx, keys)
	if err != nil {
		return nil, err
	}
	return PermuteTableContext(ctx, t, perm, opts...)
}
