package errors

import (
	"fmt"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestIsKindUnwrapsChain(t *testing.T) {
	base := ErrNoSortKeys.New()
	wrapped := fmt.Errorf("sort table: %w", base)

	assert.Assert(t, IsKind(base, ErrNoSortKeys))
	assert.Assert(t, IsKind(wrapped, ErrNoSortKeys))
	assert.Assert(t, !IsKind(wrapped, ErrChunkedColumn))
	assert.Assert(t, !IsKind(nil, ErrNoSortKeys))
}

func TestOperandTypeErrorNamesBothOperands(t *testing.T) {
	err := NewOperandTypeError("Plus", "TEXT array", "INT scalar")
	msg := err.Error()
	for _, want := range []string{"Plus", "TEXT array", "INT scalar"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}

	unary := NewOperandTypeError("Negate", "TEXT array", "")
	assert.Equal(t, unary.Error(), "not supported operand type for Negate: TEXT array")
}

func TestConstraintErrorFormat(t *testing.T) {
	err := NewNotNullViolation("people", "age", 3)
	assert.Equal(t, err.Error(), "constraint violation in people.age - (not_null) - null in a NOT NULL column - at row 3")

	free := NewTypeMismatch("", "score", "FLOAT", "INT")
	assert.Equal(t, free.Error(), "constraint violation in column score - (type_mismatch) - value=FLOAT - expected type INT")
}

func TestChunkedColumnMessage(t *testing.T) {
	err := ErrChunkedColumn.New("price", 2)
	assert.Equal(t, err.Error(), `not implemented: processing of chunked arrays (column "price" has 2 chunks)`)
}
