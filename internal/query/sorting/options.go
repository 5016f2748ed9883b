package sorting

import (
	"runtime"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

type options struct {
	mem         memory.Allocator
	parallelism int
}

// Option configures permutation of columns and tables
type Option func(*options)

// WithAllocator sets the allocator used for permuted columns
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

// WithParallelism bounds how many columns of a table are permuted at once.
// Values below 1 fall back to the default.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		mem:         memory.DefaultAllocator,
		parallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
