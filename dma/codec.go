package dma

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/gbkr-com/alpaca/env"
	"github.com/shopspring/decimal"
)

// ErrMalformedNumber is returned when a wire string is not a decimal numeral.
var ErrMalformedNumber = errors.New("malformed number")

// EncodeDecimal renders the [decimal.Decimal] as its base 10 wire string,
// without an exponent.
func EncodeDecimal(d decimal.Decimal) string {
	return d.String()
}

// DecodeDecimal parses a base 10 numeral. Exponent notation is not a numeral.
// The result is rounded to [env.DecimalPrecision] significant digits with
// trailing zeros removed, so "1.50" and "1.5" decode to the same coefficient
// and exponent.
func DecodeDecimal(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return Materialize(d), nil
}

// EncodeOptional is [EncodeDecimal] for an optional value. A nil result is
// either omitted or written as null, depending on the field's tag.
func EncodeOptional(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := EncodeDecimal(*d)
	return &s
}

// DecodeOptional is [DecodeDecimal] for an optional value.
func DecodeOptional(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := DecodeDecimal(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Materialize returns d at working precision in its canonical form.
func Materialize(d decimal.Decimal) decimal.Decimal {

	if d.IsZero() {
		return decimal.Zero
	}

	coef := d.Coefficient()
	exp := d.Exponent()

	if n := len(new(big.Int).Abs(coef).String()); n > env.DecimalPrecision {
		//
		// Drop the excess low order digits.
		//
		rounded := d.Round(-(exp + int32(n-env.DecimalPrecision)))
		coef, exp = rounded.Coefficient(), rounded.Exponent()
	}

	ten := big.NewInt(10)
	for coef.Sign() != 0 {
		q, m := new(big.Int).QuoRem(coef, ten, new(big.Int))
		if m.Sign() != 0 {
			break
		}
		coef = q
		exp++
	}

	return decimal.NewFromBigInt(coef, exp)
}

// Numeric is the set of Go types accepted by [Num].
type Numeric interface {
	int | int32 | int64 | uint | uint32 | uint64 | float32 | float64 | decimal.Decimal
}

// Num coerces v to a [decimal.Decimal] at working precision. Floats use their
// shortest decimal representation, so Num(0.1) is exactly 0.1.
func Num[T Numeric](v T) decimal.Decimal {
	var d decimal.Decimal
	switch x := any(v).(type) {
	case int:
		d = decimal.NewFromInt(int64(x))
	case int32:
		d = decimal.NewFromInt32(x)
	case int64:
		d = decimal.NewFromInt(x)
	case uint:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0)
	case uint32:
		d = decimal.NewFromInt(int64(x))
	case uint64:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
	case float32:
		d = decimal.NewFromFloat32(x)
	case float64:
		d = decimal.NewFromFloat(x)
	case decimal.Decimal:
		d = x
	}
	return Materialize(d)
}
