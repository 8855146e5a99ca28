package env

import (
	"time"
)

// DecimalPrecision is the number of significant decimal digits kept when a
// [decimal.Decimal] is read from the wire. Sixteen digits matches the 53 bit
// binary working precision of the remote service.
var DecimalPrecision = 16

// RequestTimeout is the default timeout for a single HTTP round trip.
var RequestTimeout = 30 * time.Second
