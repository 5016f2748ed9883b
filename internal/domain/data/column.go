package data

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/schema"
)

// Column is an immutable, possibly chunked, typed column.
// Storage is reference counted through the underlying arrow chunks.
type Column struct {
	def      schema.Column
	chunked  *arrow.Chunked
	accessor ChunkAccessor
}

// NewColumn builds a column over the given chunks. The column retains the
// chunks; the caller keeps ownership of its own references.
// A column without chunks gets one empty chunk.
func NewColumn(def schema.Column, chunks ...arrow.Array) (*Column, error) {
	dt, err := def.Type.ArrowType()
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", def.Name, err)
	}

	if len(chunks) == 0 {
		b := array.NewBuilder(memory.DefaultAllocator, dt)
		empty := b.NewArray()
		b.Release()
		defer empty.Release()
		chunks = []arrow.Array{empty}
	}

	start := 0
	for _, chunk := range chunks {
		if !arrow.TypeEqual(chunk.DataType(), dt) {
			return nil, errors.NewTypeMismatch("", def.Name, chunk.DataType().String(), def.Type.String())
		}
		if def.NotNull && chunk.NullN() > 0 {
			return nil, errors.NewNotNullViolation("", def.Name, start+firstNull(chunk))
		}
		start += chunk.Len()
	}

	return &Column{
		def:      def,
		chunked:  arrow.NewChunked(dt, chunks),
		accessor: NewChunkAccessor(chunks),
	}, nil
}

func firstNull(arr arrow.Array) int {
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			return i
		}
	}
	return -1
}

func (c *Column) Def() schema.Column      { return c.def }
func (c *Column) Name() string            { return c.def.Name }
func (c *Column) Type() schema.ColumnType { return c.def.Type }
func (c *Column) Len() int                { return c.chunked.Len() }
func (c *Column) NullN() int              { return c.chunked.NullN() }
func (c *Column) NumChunks() int          { return len(c.chunked.Chunks()) }
func (c *Column) Chunk(i int) arrow.Array { return c.chunked.Chunk(i) }
func (c *Column) Chunks() []arrow.Array   { return c.chunked.Chunks() }

// Chunked exposes the arrow storage
func (c *Column) Chunked() *arrow.Chunked { return c.chunked }

// Locate maps a logical row to its chunk and the offset inside that chunk
func (c *Column) Locate(row int) (chunk, offset int, err error) {
	return c.accessor.Locate(row)
}

// IsNull reports whether the value at row is null
func (c *Column) IsNull(row int) (bool, error) {
	chunk, offset, err := c.Locate(row)
	if err != nil {
		return false, err
	}
	return c.chunked.Chunk(chunk).IsNull(offset), nil
}

// Renamed returns a column sharing this column's storage under another name
func (c *Column) Renamed(name string) (*Column, error) {
	def := c.def
	def.Name = name
	return NewColumn(def, c.chunked.Chunks()...)
}

func (c *Column) Retain()  { c.chunked.Retain() }
func (c *Column) Release() { c.chunked.Release() }

func (c *Column) String() string {
	return fmt.Sprintf("%s (%d rows, %d chunks)", c.def, c.Len(), c.NumChunks())
}

// ChunkAccessor maps logical row indices onto chunks
type ChunkAccessor struct {
	// starts[i] is the first logical row of chunk i, starts[len] is the total length
	starts []int
}

func NewChunkAccessor(chunks []arrow.Array) ChunkAccessor {
	starts := make([]int, len(chunks)+1)
	for i, chunk := range chunks {
		starts[i+1] = starts[i] + chunk.Len()
	}
	return ChunkAccessor{starts: starts}
}

// Len is the total number of rows across all chunks
func (a ChunkAccessor) Len() int {
	return a.starts[len(a.starts)-1]
}

func (a ChunkAccessor) Locate(row int) (chunk, offset int, err error) {
	n := a.Len()
	if row < 0 || row >= n {
		return 0, 0, errors.ErrIndexOutOfRange.New(row, n)
	}
	// first chunk whose end is past row; empty chunks are skipped naturally
	chunk = sort.Search(len(a.starts)-1, func(i int) bool { return a.starts[i+1] > row })
	return chunk, row - a.starts[chunk], nil
}
