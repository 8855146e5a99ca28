package alpaca

import (
	"fmt"

	"github.com/gbkr-com/alpaca/dma"
	"github.com/shopspring/decimal"
)

// wireDecoder decodes the decimal fields of a wire struct, keeping the first
// error so a whole struct can be read before checking.
type wireDecoder struct {
	err error
}

func (x *wireDecoder) decimal(field, s string) decimal.Decimal {
	if x.err != nil {
		return decimal.Zero
	}
	d, err := dma.DecodeDecimal(s)
	if err != nil {
		x.err = fmt.Errorf("%s: %w", field, err)
	}
	return d
}

func (x *wireDecoder) optional(field string, s *string) *decimal.Decimal {
	if x.err != nil {
		return nil
	}
	d, err := dma.DecodeOptional(s)
	if err != nil {
		x.err = fmt.Errorf("%s: %w", field, err)
	}
	return d
}
