package calc

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// pending is an entry on the operator stack.
type pending struct {
	sym rune
	pos int
}

// machine is the state of one evaluation. Every evaluation gets its own, so
// evaluating concurrently needs no coordination.
type machine struct {
	nums    []float64
	ops     []pending
	lenient bool
}

// Evaluate scans normalized text once, left to right, and returns its value.
// Most callers want Eval or Calculate, which normalize first.
func Evaluate(text string, opts ...Option) (float64, error) {
	s := apply(opts)
	m := machine{lenient: s.lenient}
	return m.run(lex(strings.NewReader(text)))
}

func (m *machine) run(scan *lexer) (float64, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return 0, err
		}
		switch tok.kind {
		case tokenEOF:
			return m.finish(tok.pos)
		case tokenNum:
			m.push(tok.num)
		case tokenOpen:
			m.ops = append(m.ops, pending{'(', tok.pos})
		case tokenClose:
			if err := m.close(tok.pos); err != nil {
				return 0, err
			}
		case tokenFact:
			// Factorial applies right away to the most recent value.
			if len(m.nums) == 0 {
				return 0, &StackError{Col: tok.pos, Op: "!", Need: 1}
			}
			v := m.pop()
			m.push(float64(Factorial(truncint(v))))
		case tokenOp:
			sym, _ := utf8.DecodeRuneInString(tok.text)
			if !opfor(sym).deferred {
				for len(m.ops) > 0 && precedence(m.top().sym) >= precedence(sym) {
					if err := m.reduce(); err != nil {
						return 0, err
					}
				}
			}
			m.ops = append(m.ops, pending{sym, tok.pos})
		case tokenUnknown:
			if !m.lenient {
				return 0, &SymbolError{Col: tok.pos, Sym: tok.text}
			}
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// close handles a close bracket by reducing back to the matching open bracket.
func (m *machine) close(pos int) error {
	for len(m.ops) > 0 && m.top().sym != '(' {
		if err := m.reduce(); err != nil {
			return err
		}
	}
	if len(m.ops) == 0 {
		if m.lenient {
			return nil
		}
		return &BracketError{Col: pos, Right: ")"}
	}
	m.ops = m.ops[:len(m.ops)-1]
	return nil
}

// finish drains the operator stack and produces the result.
func (m *machine) finish(end int) (float64, error) {
	for len(m.ops) > 0 {
		if p := m.top(); p.sym == '(' {
			if !m.lenient {
				return 0, &BracketError{Col: p.pos, Left: "("}
			}
			m.ops = m.ops[:len(m.ops)-1]
			continue
		}
		if err := m.reduce(); err != nil {
			return 0, err
		}
	}
	switch {
	case len(m.nums) == 0:
		return 0, &StackError{Col: end}
	case len(m.nums) > 1 && !m.lenient:
		return 0, &ResultError{Col: end, Values: append([]float64(nil), m.nums...)}
	}
	return m.pop(), nil
}

// reduce pops the top operator and applies it to the top of the operand
// stack. The operator must not be an open bracket.
func (m *machine) reduce() error {
	p := m.top()
	m.ops = m.ops[:len(m.ops)-1]
	op := opfor(p.sym)
	if op.apply == nil {
		panic("calc: reduce on " + strconv.QuoteRune(p.sym))
	}
	if n := op.arity(); len(m.nums) < n {
		return &StackError{Col: p.pos, Op: string(p.sym), Need: n, Have: len(m.nums)}
	}
	r := m.pop()
	l := math.NaN()
	if !op.unary {
		l = m.pop()
	}
	m.push(op.apply(l, r))
	return nil
}

func (m *machine) push(v float64) {
	m.nums = append(m.nums, v)
}

// pop removes the top of the operand stack and returns it.
func (m *machine) pop() float64 {
	v := m.nums[len(m.nums)-1]
	m.nums = m.nums[:len(m.nums)-1]
	return v
}

// top is a shortcut to get the top of the operator stack.
func (m *machine) top() pending {
	return m.ops[len(m.ops)-1]
}
