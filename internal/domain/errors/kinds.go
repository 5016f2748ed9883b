// Package errors holds the error taxonomy shared by the sort engine, the
// interpreter and the spreadsheet adapter. Every error aborts the call that
// raised it; no operation returns partial results alongside an error.
package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Configuration errors
var (
	ErrNoSortKeys       = goerrors.NewKind("no column to sort by")
	ErrMissingKeyColumn = goerrors.NewKind("sort key %d has no column")
	ErrLengthMismatch   = goerrors.NewKind("column %q has %d rows, expected %d")
	ErrUnknownColumn    = goerrors.NewKind("column %q not found")
)

// Unsupported shape
var ErrChunkedColumn = goerrors.NewKind("not implemented: processing of chunked arrays (column %q has %d chunks)")

// Unimplemented features
var ErrNotImplemented = goerrors.NewKind("not implemented: %s")

// Internal invariant: a runtime tag outside its enumeration reached the dispatcher
var ErrInvalidTag = goerrors.NewKind("internal error: invalid %s tag %v")

var (
	ErrDivisionByZero         = goerrors.NewKind("integer division by zero at row %d")
	ErrIndexOutOfRange        = goerrors.NewKind("row index %d out of range [0, %d)")
	ErrUnknownColumnReference = goerrors.NewKind("column reference %d is not mapped to a table column")
)

// IsKind reports whether any error in err's chain was created from kind.
// go-errors kinds only match the outermost error, so wrapped chains are unwound here.
func IsKind(err error, kind *goerrors.Kind) bool {
	for err != nil {
		if kind.Is(err) {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// OperandTypeError reports operand kinds an operator is not defined for
type OperandTypeError struct {
	Operator string
	Left     string
	Right    string // empty for unary operators
}

func (e *OperandTypeError) Error() string {
	if e.Right == "" {
		return fmt.Sprintf("not supported operand type for %s: %s", e.Operator, e.Left)
	}
	return fmt.Sprintf("not supported operand types for %s: %s and %s", e.Operator, e.Left, e.Right)
}

func NewOperandTypeError(operator, left, right string) *OperandTypeError {
	return &OperandTypeError{Operator: operator, Left: left, Right: right}
}
