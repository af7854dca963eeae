package calc

import (
	"strconv"
	"strings"
)

// NumberError indicates a run of digits and decimal points that is not a
// valid number, e.g. "1.2.3". It implements InputError.
type NumberError struct {
	// Col is the position of the first rune of the number.
	Col int
	// Text is the run that failed to parse.
	Text string
	// Err is the underlying conversion error.
	Err error
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

// StackError is an error indicating that an operator was applied with too few
// operands on the stack, as in "+" or "2*". It implements InputError.
type StackError struct {
	// Col is the position of the operator. For an expression with no value at
	// all, it is the position of the end of input.
	Col int
	// Op is the operator that was being applied. It is empty when the whole
	// expression produced no value.
	Op string
	// Need is the number of operands the operator takes.
	Need int
	// Have is the number of operands that were available.
	Have int
}

func (err *StackError) Error() string {
	if err.Op == "" {
		return errpos(err.Col, "stack underflow: expression has no value")
	}
	return errpos(err.Col, "stack underflow: "+err.Op+" needs "+operands(err.Need)+", have "+strconv.Itoa(err.Have))
}

func (err *StackError) Pos() int {
	return err.Col
}

func operands(n int) string {
	if n == 1 {
		return "1 operand"
	}
	return strconv.Itoa(n) + " operands"
}

// BracketError is an error indicating an unmatched parenthesis. It implements
// InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is "(" if an open bracket was never closed.
	Left string
	// Right is ")" if a close bracket had no open bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SymbolError is an error indicating a rune the calculator does not
// understand. It implements InputError.
type SymbolError struct {
	// Col is the position of the symbol.
	Col int
	// Sym is the symbol.
	Sym string
}

func (err *SymbolError) Error() string {
	return errpos(err.Col, "unknown symbol "+strconv.Quote(err.Sym))
}

func (err *SymbolError) Pos() int {
	return err.Col
}

// ResultError is an error indicating that evaluation finished with more than
// one value, as in "(2)(3)" or "2√4". It implements InputError.
type ResultError struct {
	// Col is the position of the end of input.
	Col int
	// Values are the values left on the operand stack, bottom first.
	Values []float64
}

func (err *ResultError) Error() string {
	s := make([]string, len(err.Values))
	for i, v := range err.Values {
		s[i] = FormatResult(v)
	}
	return errpos(err.Col, "missing operator between values "+strings.Join(s, ", "))
}

func (err *ResultError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*NumberError)(nil)
	_ InputError = (*StackError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SymbolError)(nil)
	_ InputError = (*ResultError)(nil)
)
