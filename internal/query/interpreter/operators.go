package interpreter

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"

	"github.com/leengari/lquery/internal/dispatch"
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/parser/ast"
)

func mismatch(op string, l, r Field) error {
	return errors.NewOperandTypeError(op, l.Kind().String(), r.Kind().String())
}

// arithmetic evaluates a binary arithmetic operator. Two INT operands stay
// INT; any FLOAT operand promotes the other side to FLOAT.
func (in *Interpreter) arithmetic(op ast.ValueOperator, l, r Field) (Field, error) {
	if l.Kind().isText() || r.Kind().isText() {
		return nil, mismatch(op.String(), l, r)
	}

	n := in.rows
	if l.Kind().isInt() && r.Kind().isInt() {
		kernel, err := arithmeticKernel[int64](op)
		if err != nil {
			return nil, err
		}
		if op == ast.Divide {
			zeroInNull, err := checkDivisor(r, n)
			if err != nil {
				return nil, err
			}
			if zeroInNull {
				kernel = divideSkippingZero
			}
		}
		out, ok := zipFields(in.mem, n, l, r, kernel)
		if !ok {
			return nil, mismatch(op.String(), l, r)
		}
		return out, nil
	}

	kernel, err := arithmeticKernel[float64](op)
	if err != nil {
		return nil, err
	}
	lf, rf, release := in.promotePair(l, r)
	defer release()
	out, ok := zipFields(in.mem, n, lf, rf, kernel)
	if !ok {
		return nil, mismatch(op.String(), l, r)
	}
	return out, nil
}

func (in *Interpreter) negate(f Field) (Field, error) {
	var (
		out Field
		ok  bool
	)
	switch f.Kind() {
	case KindIntScalar, KindIntArray:
		out, ok = mapField(in.mem, in.rows, f, negate[int64])
	case KindFloatScalar, KindFloatArray:
		out, ok = mapField(in.mem, in.rows, f, negate[float64])
	}
	if !ok {
		return nil, errors.NewOperandTypeError(ast.Negate.String(), f.Kind().String(), "")
	}
	return out, nil
}

// compare evaluates a comparison into one byte per row
func (in *Interpreter) compare(op ast.ComparisonOperator, l, r Field) (*Array[uint8], error) {
	n := in.rows
	lt, rt := l.Kind().isText(), r.Kind().isText()
	switch {
	case lt && rt:
		kernel, err := comparisonKernel[string](op)
		if err != nil {
			return nil, err
		}
		return zip(in.mem, n, l.(*TextArray), r.(*TextArray), kernel), nil

	case lt || rt:
		return nil, mismatch(op.String(), l, r)

	case l.Kind().isInt() && r.Kind().isInt():
		kernel, err := comparisonKernel[int64](op)
		if err != nil {
			return nil, err
		}
		out, ok := zipFields(in.mem, n, l, r, kernel)
		if !ok {
			return nil, mismatch(op.String(), l, r)
		}
		return out, nil
	}

	kernel, err := comparisonKernel[float64](op)
	if err != nil {
		return nil, err
	}
	lf, rf, release := in.promotePair(l, r)
	defer release()
	out, ok := zipFields(in.mem, n, lf, rf, kernel)
	if !ok {
		return nil, mismatch(op.String(), l, r)
	}
	return out, nil
}

// promotePair converts INT operands to FLOAT. The returned func releases any
// array materialized by the conversion.
func (in *Interpreter) promotePair(l, r Field) (Field, Field, func()) {
	var temps []Field
	promote := func(f Field) Field {
		switch v := f.(type) {
		case Scalar[int64]:
			return Scalar[float64]{Value: float64(v.Value)}
		case *Array[int64]:
			out := mapUnary(in.mem, in.rows, v, toFloat)
			temps = append(temps, out)
			return out
		}
		return f
	}
	lf, rf := promote(l), promote(r)
	return lf, rf, func() {
		for _, t := range temps {
			t.Release()
		}
	}
}

// checkDivisor rejects an INT divisor that is zero on any valid row and
// reports whether some null row holds a zero
func checkDivisor(r Field, n int) (zeroInNull bool, err error) {
	switch v := r.(type) {
	case Scalar[int64]:
		if v.Value == 0 && n > 0 {
			return false, errors.ErrDivisionByZero.New(0)
		}
	case *Array[int64]:
		return dispatch.OnNullability(!v.valid.all(),
			func() (bool, error) {
				found := false
				for i, d := range v.values {
					if d != 0 {
						continue
					}
					if bitutil.BitIsSet(v.valid.bits, v.valid.offset+i) {
						return false, errors.ErrDivisionByZero.New(i)
					}
					found = true
				}
				return found, nil
			},
			func() (bool, error) {
				for i, d := range v.values {
					if d == 0 {
						return false, errors.ErrDivisionByZero.New(i)
					}
				}
				return false, nil
			},
		)
	}
	return false, nil
}
