package calc

import "math"

// operator describes how an operator rune is scheduled and applied.
type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// deferred operators are pushed onto the operator stack without first
	// reducing anything, so a chain of them waits for the final drain.
	deferred bool
	// unary operators take one operand.
	unary bool
	// apply computes the result. For unary operators, l is unused.
	apply func(l, r float64) float64
}

func (o operator) arity() int {
	if o.unary {
		return 1
	}
	return 2
}

// opfor gets the operator for a rune. If there is no such operator, then the
// result has a nil apply.
func opfor(sym rune) operator {
	switch sym {
	case '+':
		return operator{1, false, false, func(l, r float64) float64 { return l + r }}
	case '-':
		return operator{1, false, false, func(l, r float64) float64 { return l - r }}
	case '*':
		return operator{2, false, false, func(l, r float64) float64 { return l * r }}
	case '/':
		return operator{2, false, false, func(l, r float64) float64 { return l / r }}
	case '^':
		return operator{3, true, false, math.Pow}
	case '√':
		return operator{3, true, true, func(_, r float64) float64 { return math.Sqrt(r) }}
	default:
		return operator{}
	}
}

// precedence is the binding strength of a symbol on the operator stack. An
// open bracket has the lowest precedence so that no incoming operator reduces
// past it.
func precedence(sym rune) int8 {
	return opfor(sym).prec
}

// Factorial computes n! in a 64-bit accumulator. Values of n below 2 give 1.
// The product silently wraps past 20!; once it wraps to zero it stays zero.
func Factorial(n int64) int64 {
	r := int64(1)
	for i := int64(2); i <= n; i++ {
		r *= i
		if r == 0 {
			break
		}
	}
	return r
}

// truncint converts a float to an integer the way a calculator keypad would
// for factorial: toward zero, clamped to the 32-bit range, and NaN as zero.
func truncint(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int64(v)
}
