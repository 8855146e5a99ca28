package dma

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDecimalRoundTrip(t *testing.T) {

	for _, s := range []string{
		"0",
		"1",
		"-1",
		"42.5",
		"0.0001",
		"-1234.5678",
		"100",
		"999999999999999.9",
		"0.1234567890123456",
		"12345678901234560000",
	} {
		d, err := DecodeDecimal(s)
		assert.Nil(t, err, s)
		assert.Equal(t, s, EncodeDecimal(d))

		again, err := DecodeDecimal(EncodeDecimal(d))
		assert.Nil(t, err, s)
		assert.Equal(t, d.Exponent(), again.Exponent(), s)
		assert.Equal(t, 0, d.Coefficient().Cmp(again.Coefficient()), s)
	}

}

func TestDecodeCanonical(t *testing.T) {

	a, err := DecodeDecimal("1.50")
	assert.Nil(t, err)
	b, err := DecodeDecimal("1.5")
	assert.Nil(t, err)
	assert.Equal(t, a.Exponent(), b.Exponent())
	assert.Equal(t, 0, a.Coefficient().Cmp(b.Coefficient()))
	assert.Equal(t, "1.5", EncodeDecimal(a))

	z, err := DecodeDecimal("0.000")
	assert.Nil(t, err)
	assert.True(t, z.IsZero())
	assert.Equal(t, "0", EncodeDecimal(z))

	_, err = DecodeDecimal("1.5e3")
	assert.True(t, errors.Is(err, ErrMalformedNumber))

}

func TestDecodePrecision(t *testing.T) {

	d, err := DecodeDecimal("0.12345678901234567")
	assert.Nil(t, err)
	assert.Equal(t, "0.1234567890123457", EncodeDecimal(d))

	d, err = DecodeDecimal("12345678901234567")
	assert.Nil(t, err)
	assert.Equal(t, "12345678901234570", EncodeDecimal(d))

}

func TestDecodeMalformed(t *testing.T) {

	for _, s := range []string{"12.34.56", "", "abc", "1,5", "12x", "1.5e3", "1E2", "2e-3"} {
		_, err := DecodeDecimal(s)
		assert.True(t, errors.Is(err, ErrMalformedNumber), s)
	}

}

func TestOptional(t *testing.T) {

	assert.Nil(t, EncodeOptional(nil))
	d, err := DecodeOptional(nil)
	assert.Nil(t, err)
	assert.Nil(t, d)

	x := decimal.New(425, -1)
	s := EncodeOptional(&x)
	assert.NotNil(t, s)
	assert.Equal(t, "42.5", *s)

	d, err = DecodeOptional(s)
	assert.Nil(t, err)
	assert.True(t, x.Equal(*d))

	bad := "4..2"
	_, err = DecodeOptional(&bad)
	assert.True(t, errors.Is(err, ErrMalformedNumber))

}

func TestNum(t *testing.T) {

	assert.Equal(t, "2", Num(2).String())
	assert.Equal(t, "-7", Num(int64(-7)).String())
	assert.Equal(t, "1099511627776", Num(uint64(1<<40)).String())
	assert.Equal(t, "18446744073709550000", Num(uint64(18446744073709551615)).String())
	assert.Equal(t, "0.1", Num(0.1).String())
	assert.Equal(t, "1.25", Num(float32(1.25)).String())
	assert.Equal(t, "3.5", Num(decimal.New(3500, -3)).String())

}

func TestParseTag(t *testing.T) {

	type colour string

	c, err := ParseTag("red", colour("red"), colour("blue"))
	assert.Nil(t, err)
	assert.Equal(t, colour("red"), c)

	_, err = ParseTag("green", colour("red"), colour("blue"))
	assert.True(t, errors.Is(err, ErrUnrecognizedEnumTag))

}
