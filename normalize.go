package calc

import (
	"strings"
	"unicode"
)

// Spaced contains the runes that Normalize surrounds with spaces. The scanner
// reads ! and ^ directly next to digits, so they are not included.
const Spaced = "+-*/()√"

// Normalize rewrites raw calculator input so that every operator and bracket
// stands apart from its neighbors. All whitespace and commas are removed
// first, then each rune in Spaced is surrounded by single spaces. Adjacent
// operators each get their own pair, so the result may contain runs of
// spaces. Normalize never fails, and normalizing its output again gives the
// same string.
func Normalize(raw string) string {
	text, _ := normalize(raw)
	return text
}

// normalize implements Normalize. It also returns, for each rune of the
// result, the 1-based column of the raw rune it came from. Padding spaces
// belong to the rune they surround.
func normalize(raw string) (string, []int) {
	var b strings.Builder
	b.Grow(len(raw) + len(raw)/2)
	cols := make([]int, 0, len(raw)+len(raw)/2)
	col := 0
	for _, r := range raw {
		col++
		switch {
		case unicode.IsSpace(r), r == ',':
			continue
		case strings.ContainsRune(Spaced, r):
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
			cols = append(cols, col, col, col)
		default:
			b.WriteRune(r)
			cols = append(cols, col)
		}
	}
	return b.String(), cols
}

// rawcol maps a column of normalized text back to the raw input. Columns past
// the end of the normalized text map past the end of the raw input.
func rawcol(cols []int, rawlen, col int) int {
	if col < 1 || col > len(cols) {
		return rawlen + 1
	}
	return cols[col-1]
}
