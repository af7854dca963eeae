package baseconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBinary(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"0", "0"},
		{"5", "101"},
		{"255", "11111111"},
		{"2147483647", "1111111111111111111111111111111"},
		{"-1", "11111111111111111111111111111111"},
		{"-2147483648", "10000000000000000000000000000000"},
	}
	for _, c := range cases {
		r, err := ToBinary(c.in)
		if assert.NoError(t, err, c.in) {
			assert.Equal(t, c.out, r, c.in)
		}
	}
	for _, in := range []string{"", "1.5", "abc", "2147483648", "0x10"} {
		_, err := ToBinary(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestFromBinary(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"0", "0"},
		{"101", "5"},
		{"-101", "-5"},
		{"1111111111111111111111111111111", "2147483647"},
	}
	for _, c := range cases {
		r, err := FromBinary(c.in)
		if assert.NoError(t, err, c.in) {
			assert.Equal(t, c.out, r, c.in)
		}
	}
	for _, in := range []string{"", "102", "two", "11111111111111111111111111111111"} {
		_, err := FromBinary(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, "5 in binary is 101", BinaryLine("5", "101"))
	assert.Equal(t, "101 in decimal is 5", DecimalLine("101", "5"))
}
