package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a tokenNum.
	num float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number.
	tokenNum
	// tokenOp is a binary operator or the square root.
	tokenOp
	// tokenFact is the postfix factorial marker !.
	tokenFact
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenUnknown is any rune the calculator doesn't understand.
	tokenUnknown
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenOp:
		return "Op"
	case tokenFact:
		return "Fact"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenUnknown:
		return "Unknown"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^√"

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the number of runes read so far.
	col int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans the next token from the input. At the end of the input, the
// result is an EOF token positioned one past the last rune.
func (l *lexer) next() (lexToken, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lexToken{kind: tokenEOF, pos: l.col + 1}, nil
			}
			return lexToken{pos: l.col + 1}, err
		}
		tok := lexToken{text: string(r), pos: l.col}
		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r):
			l.unreadRune()
			v, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			tok.num = v
		case r == '(':
			tok.kind = tokenOpen
		case r == ')':
			tok.kind = tokenClose
		case r == '!':
			tok.kind = tokenFact
		case strings.ContainsRune(Operators, r):
			tok.kind = tokenOp
		default:
			tok.kind = tokenUnknown
		}
		return tok, nil
	}
}

// scanNum scans a run of digits and decimal points. The run is greedy, so
// "1.2.3" is scanned whole and then rejected.
func (l *lexer) scanNum() (float64, error) {
	start := l.col + 1
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		if r != '.' && !unicode.IsDigit(r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
	}
	text := l.buf.String()
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// A run of digits too long for a float64 is an infinity, not an error.
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, &NumberError{Col: start, Text: text, Err: err}
	}
	return v, nil
}
