package sorting

import (
	"fmt"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/data"
)

// Permutation lists source row indices in output order.
// A valid permutation of n rows is a bijection on [0, n).
type Permutation []int64

// Identity returns the permutation 0, 1, ..., n-1
func Identity(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = int64(i)
	}
	return p
}

func (p Permutation) Len() int { return len(p) }

// IsIdentity reports whether p maps every row onto itself
func (p Permutation) IsIdentity() bool {
	for i, v := range p {
		if v != int64(i) {
			return false
		}
	}
	return true
}

// Validate checks that p is a bijection on [0, n)
func (p Permutation) Validate(n int) error {
	if len(p) != n {
		return fmt.Errorf("permutation has %d entries, expected %d", len(p), n)
	}
	seen := make([]bool, n)
	for i, v := range p {
		if v < 0 || v >= int64(n) {
			return fmt.Errorf("permutation entry %d: index %d out of range [0, %d)", i, v, n)
		}
		if seen[v] {
			return fmt.Errorf("permutation entry %d: index %d repeated", i, v)
		}
		seen[v] = true
	}
	return nil
}

type (
	SortOrder     = dispatch.SortOrder
	NullPlacement = dispatch.NullPlacement
)

const (
	Ascending   = dispatch.Ascending
	Descending  = dispatch.Descending
	NullsBefore = dispatch.NullsBefore
	NullsAfter  = dispatch.NullsAfter
)

// SortKey is one column to order by. The zero value sorts ascending with nulls first.
type SortKey struct {
	Column *data.Column
	Order  SortOrder
	Nulls  NullPlacement
}

func (k SortKey) String() string {
	name := "<nil>"
	if k.Column != nil {
		name = k.Column.Name()
	}
	return fmt.Sprintf("%s %s %s", name, k.Order, k.Nulls)
}
