// Package baseconv converts integers between decimal and binary text.
package baseconv

import (
	"errors"
	"strconv"
)

// ErrInvalidInput is returned for text that isn't a 32-bit integer in the
// expected base.
var ErrInvalidInput = errors.New("invalid input")

// ToBinary converts a decimal 32-bit integer to binary. Negative numbers are
// shown as their 32-bit two's complement.
func ToBinary(s string) (string, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return "", ErrInvalidInput
	}
	return strconv.FormatUint(uint64(uint32(int32(n))), 2), nil
}

// FromBinary converts a binary 32-bit integer, optionally signed, to decimal.
func FromBinary(s string) (string, error) {
	n, err := strconv.ParseInt(s, 2, 32)
	if err != nil {
		return "", ErrInvalidInput
	}
	return strconv.FormatInt(n, 10), nil
}

// BinaryLine describes a decimal to binary conversion.
func BinaryLine(in, out string) string {
	return in + " in binary is " + out
}

// DecimalLine describes a binary to decimal conversion.
func DecimalLine(in, out string) string {
	return in + " in decimal is " + out
}
