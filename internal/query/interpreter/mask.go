package interpreter

import "github.com/apache/arrow-go/v18/arrow/memory"

// Mask holds one byte per row; nonzero means the predicate holds
type Mask struct {
	values []byte
	buf    *memory.Buffer
}

// newMask takes over the buffer of a comparison result. Null rows become 0.
func newMask(arr *Array[uint8]) *Mask {
	if !arr.valid.all() {
		for i := range arr.values {
			if !arr.valid.isSet(i) {
				arr.values[i] = 0
			}
		}
		arr.valid.release()
	}
	m := &Mask{values: arr.values, buf: arr.owned}
	arr.owned, arr.values = nil, nil
	return m
}

// Bytes exposes the mask buffer; it is invalid after Release
func (m *Mask) Bytes() []byte { return m.values }

func (m *Mask) Len() int { return len(m.values) }

// Count returns the number of rows selected by the mask
func (m *Mask) Count() int {
	count := 0
	for _, b := range m.values {
		if b != 0 {
			count++
		}
	}
	return count
}

// Indices lists the selected rows in order
func (m *Mask) Indices() []int64 {
	indices := make([]int64, 0, m.Count())
	for i, b := range m.values {
		if b != 0 {
			indices = append(indices, int64(i))
		}
	}
	return indices
}

// Bools copies the mask into a bool slice
func (m *Mask) Bools() []bool {
	out := make([]bool, len(m.values))
	for i, b := range m.values {
		out[i] = b != 0
	}
	return out
}

func (m *Mask) Release() {
	if m.buf != nil {
		m.buf.Release()
		m.buf = nil
		m.values = nil
	}
}
