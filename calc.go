package calc

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Eval normalizes raw input and evaluates it. Unlike Evaluate, the positions
// in its errors are rune columns of raw rather than of the normalized text.
func Eval(raw string, opts ...Option) (float64, error) {
	text, cols := normalize(raw)
	v, err := Evaluate(text, opts...)
	if err != nil {
		relocate(err, cols, utf8.RuneCountInString(raw))
	}
	return v, err
}

// relocate rewrites the position of an evaluation error from normalized
// columns to raw ones.
func relocate(err error, cols []int, rawlen int) {
	switch err := err.(type) {
	case *NumberError:
		err.Col = rawcol(cols, rawlen, err.Col)
	case *StackError:
		err.Col = rawcol(cols, rawlen, err.Col)
	case *BracketError:
		err.Col = rawcol(cols, rawlen, err.Col)
	case *SymbolError:
		err.Col = rawcol(cols, rawlen, err.Col)
	case *ResultError:
		err.Col = rawcol(cols, rawlen, err.Col)
	}
}

// Calculate evaluates raw input and returns the formatted result. It never
// fails: any error is returned as a message beginning with "Error: ", with
// positions counted in runes of raw as for Eval. After a successful
// evaluation, the Recorder set with Record, if any, receives the raw input and
// the formatted result.
func Calculate(raw string, opts ...Option) string {
	s := apply(opts)
	v, err := Eval(raw, opts...)
	if err != nil {
		return "Error: " + err.Error()
	}
	r := FormatResult(v)
	if s.rec != nil {
		s.rec.Record(raw, r)
	}
	return r
}

// FormatResult formats a result for display. Infinities are "Infinity" and
// "-Infinity", and NaN is "NaN". Finite values use the shortest decimal that
// reads back as the same float64, switching to exponent form for magnitudes
// below 1e-6 or at least 1e21.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFactorial computes the factorial of a base-10 integer given as text,
// as for a calculator's standalone factorial key. Surrounding whitespace is
// ignored. Anything else that is not an integer is a *NumberError.
func ParseFactorial(s string) (int64, error) {
	t := strings.TrimSpace(s)
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, &NumberError{Col: 1, Text: t, Err: err}
	}
	return Factorial(n), nil
}
