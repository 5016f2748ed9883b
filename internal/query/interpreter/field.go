package interpreter

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/dispatch"
)

// Kind identifies the variant of a Field
type Kind uint8

const (
	KindIntScalar Kind = iota
	KindFloatScalar
	KindIntArray
	KindFloatArray
	KindTextArray
	kindMask
)

func (k Kind) String() string {
	switch k {
	case KindIntScalar:
		return "INT scalar"
	case KindFloatScalar:
		return "FLOAT scalar"
	case KindIntArray:
		return "INT array"
	case KindFloatArray:
		return "FLOAT array"
	case KindTextArray:
		return "TEXT array"
	case kindMask:
		return "mask"
	default:
		return "unknown operand"
	}
}

func (k Kind) isText() bool { return k == KindTextArray }
func (k Kind) isInt() bool  { return k == KindIntScalar || k == KindIntArray }

// Field is the result of evaluating a value node: a scalar, or an array with
// one element per table row. The set of implementations is closed.
type Field interface {
	Kind() Kind
	// Release frees an owned buffer; it is a no-op for scalars and borrowed arrays
	Release()
	field()
}

type numeric interface {
	int64 | float64
}

type fixedWidth interface {
	int64 | float64 | uint8
}

// Scalar is a single value broadcast to every row
type Scalar[T numeric] struct {
	Value T
}

func (s Scalar[T]) Kind() Kind {
	var zero T
	if _, ok := any(zero).(int64); ok {
		return KindIntScalar
	}
	return KindFloatScalar
}
func (s Scalar[T]) Release()           {}
func (s Scalar[T]) field()             {}
func (s Scalar[T]) at(int) T           { return s.Value }
func (s Scalar[T]) validity() validity { return validity{} }

// Array holds one fixed width value per row. It either owns its buffer or
// borrows the value buffer of a column chunk.
type Array[T fixedWidth] struct {
	values []T
	valid  validity
	owned  *memory.Buffer
	// source is the chunk a borrowed array aliases
	source arrow.Array
}

func (a *Array[T]) Kind() Kind {
	var zero T
	switch any(zero).(type) {
	case int64:
		return KindIntArray
	case float64:
		return KindFloatArray
	default:
		return kindMask
	}
}
func (a *Array[T]) field() {}

// Values exposes the row values; entries of null rows are unspecified
func (a *Array[T]) Values() []T { return a.values }
func (a *Array[T]) Len() int    { return len(a.values) }

// Owned reports whether Release frees memory
func (a *Array[T]) Owned() bool { return a.owned != nil }

// IsValid reports whether row i holds a value
func (a *Array[T]) IsValid(i int) bool { return a.valid.isSet(i) }

// NullN counts null rows
func (a *Array[T]) NullN() int { return a.valid.nullN(len(a.values)) }

func (a *Array[T]) Release() {
	if a.owned != nil {
		a.owned.Release()
		a.owned = nil
		a.values = nil
	}
	a.valid.release()
}

func (a *Array[T]) at(i int) T         { return a.values[i] }
func (a *Array[T]) validity() validity { return a.valid }

// TextArray borrows a string column chunk
type TextArray struct {
	arr   *array.String
	valid validity
}

func (t *TextArray) Kind() Kind         { return KindTextArray }
func (t *TextArray) Release()           {}
func (t *TextArray) field()             {}
func (t *TextArray) Len() int           { return t.arr.Len() }
func (t *TextArray) Value(i int) string { return t.arr.Value(i) }
func (t *TextArray) IsValid(i int) bool { return t.valid.isSet(i) }
func (t *TextArray) at(i int) string    { return t.arr.Value(i) }
func (t *TextArray) validity() validity { return t.valid }

// indexable is implemented by every operand the elementwise kernels accept.
// Scalars ignore the index, arrays read row i.
type indexable[T any] interface {
	at(i int) T
	validity() validity
}

// validity is a null bitmap; nil bits means every row is valid
type validity struct {
	bits   []byte
	offset int
	owned  *memory.Buffer
}

func (v validity) all() bool { return v.bits == nil }

func (v validity) isSet(i int) bool {
	return v.bits == nil || bitutil.BitIsSet(v.bits, v.offset+i)
}

func (v validity) nullN(n int) int {
	if v.bits == nil {
		return 0
	}
	return n - bitutil.CountSetBits(v.bits, v.offset, n)
}

func (v *validity) release() {
	if v.owned != nil {
		v.owned.Release()
		v.owned = nil
		v.bits = nil
	}
}

// validityOf reads the null bitmap of a chunk without copying it
func validityOf(arr arrow.Array) validity {
	return dispatch.SelectNullability(arr.NullN() != 0,
		func() validity {
			return validity{bits: arr.NullBitmapBytes(), offset: arr.Data().Offset()}
		},
		func() validity { return validity{} },
	)
}

// combine ANDs two bitmaps into a new owned bitmap of n rows
func combine(mem memory.Allocator, n int, l, r validity) validity {
	if l.all() && r.all() {
		return validity{}
	}
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(n))))
	bits := buf.Bytes()
	switch {
	case r.all():
		bitutil.CopyBitmap(l.bits, l.offset, n, bits, 0)
	case l.all():
		bitutil.CopyBitmap(r.bits, r.offset, n, bits, 0)
	default:
		bitutil.BitmapAnd(l.bits, r.bits, int64(l.offset), int64(r.offset), bits, 0, int64(n))
	}
	return validity{bits: bits, owned: buf}
}

func newOwned[T fixedWidth](mem memory.Allocator, n int) *Array[T] {
	var zero T
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(n * int(unsafe.Sizeof(zero)))
	return &Array[T]{values: arrow.GetData[T](buf.Bytes()), owned: buf}
}

func borrowInt(chunk arrow.Array) *Array[int64] {
	return &Array[int64]{
		values: chunk.(*array.Int64).Int64Values(),
		valid:  validityOf(chunk),
		source: chunk,
	}
}

func borrowFloat(chunk arrow.Array) *Array[float64] {
	return &Array[float64]{
		values: chunk.(*array.Float64).Float64Values(),
		valid:  validityOf(chunk),
		source: chunk,
	}
}

func borrowText(chunk arrow.Array) *TextArray {
	return &TextArray{arr: chunk.(*array.String), valid: validityOf(chunk)}
}
