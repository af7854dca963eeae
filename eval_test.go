package calc_test

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"decimal", "1.5", 1.5},
		{"trailing-dot", "2.", 2},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "4/5/6", 4.0 / 5.0 / 6.0},
		{"prec", "2+3*4", 14},
		{"prec-sub", "10-2*3", 4},
		{"prec-mixed", "2*3-4/2", 4},
		{"parens", "(2+3)*4", 20},
		{"nested", "((1+2)*(3+4))/7", 3},
		{"decimals", "1.5+2.25", 3.75},
		{"inexact", "0.1+0.2", 0.30000000000000004},
		{"commas", "1,000+1", 1001},
		{"spaces", "  2 +\t3 ", 5},
		{"inner-spaces", "2 3", 23},
		{"sqrt", "√9", 3},
		{"sqrt-parens", "√(7+9)", 4},
		{"sqrt-lhs", "√9*2", 6},
		{"sqrt-rhs", "2*√9", 6},
		{"sqrt-sum", "√16+√9", 7},
		{"sqrt-sqrt", "√√16", 2},
		{"fact", "5!", 120},
		{"fact-zero", "0!", 1},
		{"fact-one", "1!", 1},
		{"fact-twenty", "20!", 2432902008176640000},
		{"fact-trunc", "3.9!", 6},
		{"fact-fact", "3!!", 720},
		{"fact-binds", "2+3!", 8},
		{"fact-parens", "(2+1)!", 6},
		{"pow", "2^10", 1024},
		{"pow-frac", "4^0.5", 2},
		{"pow-mul", "2^3*2", 16},
		{"mul-pow", "2*3^2", 18},
		{"pow-parens", "(2^3)^2", 64},
		{"pow-sum", "2^(1+1)", 4},
		{"pow-fact", "2^3!", 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err != nil {
				t.Fatalf("%q gave error: %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("%q: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

// TestEvalPowChain pins the evaluation order of chained powers. Powers wait on
// the operator stack and are applied last-pushed first when the stack drains.
func TestEvalPowChain(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"2^3^2", 512},
		{"4^3^2", 262144},
		{"2^2^3-1", 255},
		{"(2^3^2)", 512},
		{"2^3^2*2", 1024},
	}
	for _, c := range cases {
		r, err := calc.Eval(c.src)
		if err != nil {
			t.Errorf("%q gave error: %v", c.src, err)
			continue
		}
		if r != c.r {
			t.Errorf("%q: want %g, got %g", c.src, c.r, r)
		}
	}
}

func TestEvalNonFinite(t *testing.T) {
	cases := []struct {
		name string
		src  string
		chk  func(float64) bool
	}{
		{"div-zero", "5/0", func(v float64) bool { return math.IsInf(v, 1) }},
		{"div-zero-neg", "(0-5)/0", func(v float64) bool { return math.IsInf(v, -1) }},
		{"zero-zero", "0/0", math.IsNaN},
		{"sqrt-neg", "√(0-1)", math.IsNaN},
		{"pow-neg", "(0-8)^0.5", math.IsNaN},
		{"huge", "9" + fmt.Sprintf("%0400d", 0), func(v float64) bool { return math.IsInf(v, 1) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err != nil {
				t.Fatalf("%q gave error: %v", c.src, err)
			}
			if !c.chk(r) {
				t.Errorf("%q gave wrong result %g", c.src, r)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
	}{
		{"empty", "", new(*calc.StackError)},
		{"spaces", "   ", new(*calc.StackError)},
		{"bare-op", "+", new(*calc.StackError)},
		{"dangling-op", "2*", new(*calc.StackError)},
		{"leading-op", "*2", new(*calc.StackError)},
		{"bare-fact", "!", new(*calc.StackError)},
		{"bare-sqrt", "√", new(*calc.StackError)},
		{"sqrt-minus", "√-1", new(*calc.StackError)},
		{"empty-parens", "()", new(*calc.StackError)},
		{"dots", "1.2.3", new(*calc.NumberError)},
		{"double-dot", "1..2", new(*calc.NumberError)},
		{"unclosed", "(2+3", new(*calc.BracketError)},
		{"unopened", "2+3)", new(*calc.BracketError)},
		{"unclosed-inner", "2*(3", new(*calc.BracketError)},
		{"symbol", "2a", new(*calc.SymbolError)},
		{"leading-dot", ".5", new(*calc.SymbolError)},
		{"two-values", "(2)(3)", new(*calc.ResultError)},
		{"sqrt-infix", "2√4", new(*calc.ResultError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err == nil {
				t.Fatalf("%q gave no error, result %g", c.src, r)
			}
			if !errors.As(err, c.err) {
				t.Errorf("%q gave %#v, want %T", c.src, err, c.err)
			}
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Errorf("%#v is not an InputError", err)
			}
		})
	}
}

func TestEvalLenient(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"unclosed", "(2+3", 5},
		{"unclosed-inner", "2*(3", 6},
		{"unopened", "2+3)", 5},
		{"symbol", "2a", 2},
		{"leading-dot", ".5", 5},
		{"two-values", "(2)(3)", 3},
		{"sqrt-infix", "2√4", 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src, calc.Lenient())
			if err != nil {
				t.Fatalf("%q gave error: %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("%q: want %g, got %g", c.src, c.r, r)
			}
		})
	}
	// Underflow is never tolerated.
	if _, err := calc.Eval("+", calc.Lenient()); err == nil {
		t.Error("lenient evaluation of + gave no error")
	}
	// Strict after Lenient restores strictness.
	if _, err := calc.Eval("(2+3", calc.Lenient(), calc.Strict()); err == nil {
		t.Error("strict evaluation of (2+3 gave no error")
	}
}

func TestEvaluatePos(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"2*", 2},
		{")", 1},
		{"1+(2", 3},
		{"12a", 3},
		{"1.2.3", 1},
		{"4+1..2", 3},
		{"", 1},
		{"7 8", 4},
		{"√", 1},
	}
	for _, c := range cases {
		_, err := calc.Evaluate(c.src)
		var ie calc.InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q gave %#v, not an InputError", c.src, err)
			continue
		}
		if ie.Pos() != c.pos {
			t.Errorf("%q: want error at %d, got %d (%v)", c.src, c.pos, ie.Pos(), err)
		}
	}
}

// TestEvalPos checks that errors from Eval point into the input as typed,
// not into its normalized form.
func TestEvalPos(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"2*", 2},
		{"(2)(3)", 7},
		{"1+(2", 3},
		{"2 + 3)", 6},
		{"12a", 3},
		{"1 + 2 a", 7},
		{"1,000.0.1", 1},
		{"4 + 1..2", 5},
		{"", 1},
		{"  ", 3},
		{"√", 1},
		{"√√ 2 * ", 6},
	}
	for _, c := range cases {
		_, err := calc.Eval(c.src)
		var ie calc.InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q gave %#v, not an InputError", c.src, err)
			continue
		}
		if ie.Pos() != c.pos {
			t.Errorf("%q: want error at %d, got %d (%v)", c.src, c.pos, ie.Pos(), err)
		}
	}
}

func TestStackErrorOperands(t *testing.T) {
	_, err := calc.Evaluate("2*")
	var se *calc.StackError
	if !errors.As(err, &se) {
		t.Fatalf("%#v is not a StackError", err)
	}
	if se.Op != "*" || se.Need != 2 || se.Have != 1 {
		t.Errorf("wrong details: %+v", se)
	}
}

func TestNumberErrorUnwrap(t *testing.T) {
	_, err := calc.Eval("1.2.3")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("%v does not unwrap to strconv.ErrSyntax", err)
	}
}

func TestEvalConcurrent(t *testing.T) {
	srcs := map[string]float64{
		"2+3*4":   14,
		"(2+3)*4": 20,
		"5!":      120,
		"2^3^2":   512,
		"√(7+9)":  4,
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for src, want := range srcs {
					got, err := calc.Eval(src)
					if err != nil || got != want {
						t.Errorf("%q: want %g, got %g, %v", src, want, got, err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkEval(b *testing.B) {
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			calc.Eval("2+3+4")
		}
	})
	b.Run("nested", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			calc.Eval("((1.5+2)*√(3^2+4^2))/5!")
		}
	})
}
