package dma

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnrecognizedEnumTag is returned when a string tag does not match any
// value of a closed enumeration.
var ErrUnrecognizedEnumTag = errors.New("unrecognized enum tag")

// ParseTag returns s as a T if it is one of the known tags.
func ParseTag[T ~string](s string, known ...T) (T, error) {
	if slices.Contains(known, T(s)) {
		return T(s), nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ErrUnrecognizedEnumTag, s)
}
