package sorting

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
)

// SortPermutation computes the row order of a multi-key sort.
//
// Keys are applied from least to most significant, each as a stable sort of
// the running permutation, so ties on an earlier key keep the order produced
// by the later ones.
func SortPermutation(keys []SortKey) (Permutation, error) {
	return SortPermutationContext(context.Background(), keys)
}

// SortPermutationContext is SortPermutation with cancellation checked between key stages
func SortPermutationContext(ctx context.Context, keys []SortKey) (Permutation, error) {
	if len(keys) == 0 {
		return nil, errors.ErrNoSortKeys.New()
	}
	for i, key := range keys {
		if key.Column == nil {
			return nil, errors.ErrMissingKeyColumn.New(i)
		}
	}
	n := keys[0].Column.Len()
	for _, key := range keys[1:] {
		if key.Column.Len() != n {
			return nil, errors.ErrLengthMismatch.New(key.Column.Name(), key.Column.Len(), n)
		}
	}

	perm := Identity(n)
	for i := len(keys) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.Debug("sort stage", "column", keys[i].Column.Name(), "order", keys[i].Order, "nulls", keys[i].Nulls, "rows", n)
		if err := sortStage(perm, keys[i]); err != nil {
			return nil, err
		}
	}
	return perm, nil
}

type none struct{}

func sortStage(perm Permutation, key SortKey) error {
	_, err := dispatch.OnType(key.Column.Type(), dispatch.TypeCases[none]{
		Int:   func() (none, error) { return none{}, sortByColumn[int64](perm, key) },
		Float: func() (none, error) { return none{}, sortByColumn[float64](perm, key) },
		Text:  func() (none, error) { return none{}, sortByColumn[string](perm, key) },
	})
	return err
}

type comparator func(a, b int64) int

func sortByColumn[T data.Element](perm Permutation, key SortKey) error {
	order, err := valueOrder[T](key.Order)
	if err != nil {
		return err
	}
	compare, err := dispatch.OnNullability(key.Column.NullN() != 0,
		func() (comparator, error) {
			values, err := extractOptional[T](key.Column)
			if err != nil {
				return nil, err
			}
			return nullableComparator(values, order, key.Nulls)
		},
		func() (comparator, error) {
			values, err := extractDense[T](key.Column)
			if err != nil {
				return nil, err
			}
			return func(a, b int64) int { return order(values[a], values[b]) }, nil
		},
	)
	if err != nil {
		return err
	}
	slices.SortStableFunc(perm, compare)
	return nil
}

func valueOrder[T data.Element](o SortOrder) (func(a, b T) int, error) {
	return dispatch.OnOrder(o,
		func() func(a, b T) int { return cmp.Compare[T] },
		func() func(a, b T) int { return func(a, b T) int { return cmp.Compare(b, a) } },
	)
}

type optional[T any] struct {
	value T
	valid bool
}

// Nulls compare equal to each other; placement does not depend on the value order.
func nullableComparator[T any](values []optional[T], order func(a, b T) int, nulls NullPlacement) (comparator, error) {
	return dispatch.OnNullPlacement(nulls,
		func() comparator {
			return func(a, b int64) int {
				l, r := values[a], values[b]
				if l.valid && r.valid {
					return order(l.value, r.value)
				}
				return rank(l.valid) - rank(r.valid)
			}
		},
		func() comparator {
			return func(a, b int64) int {
				l, r := values[a], values[b]
				if l.valid && r.valid {
					return order(l.value, r.value)
				}
				return rank(r.valid) - rank(l.valid)
			}
		},
	)
}

func rank(valid bool) int {
	if valid {
		return 1
	}
	return 0
}

// extractDense copies the key column into one contiguous buffer indexed by row
func extractDense[T data.Element](col *data.Column) ([]T, error) {
	desc := data.DescriptionFor[T]()
	values := make([]T, 0, col.Len())
	for _, chunk := range col.Chunks() {
		read, err := desc.Reader(chunk)
		if err != nil {
			return nil, err
		}
		for i := 0; i < chunk.Len(); i++ {
			values = append(values, read(i))
		}
	}
	return values, nil
}

func extractOptional[T data.Element](col *data.Column) ([]optional[T], error) {
	desc := data.DescriptionFor[T]()
	values := make([]optional[T], 0, col.Len())
	for _, chunk := range col.Chunks() {
		read, err := desc.Reader(chunk)
		if err != nil {
			return nil, err
		}
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				values = append(values, optional[T]{})
				continue
			}
			values = append(values, optional[T]{value: read(i), valid: true})
		}
	}
	return values, nil
}
