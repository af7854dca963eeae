// Package calc implements a pocket-calculator expression evaluator.
//
// Expressions are what you'd type on a calculator's keypad: decimal numbers,
// the binary operators + - * / and ^, a prefix square root √, a postfix
// factorial !, and parentheses. "2+3*4" is 14, "√9" is 3, and "5!" is 120.
// Whitespace and commas are ignored, so "1,000 + 1" is 1001.
//
// Evaluation is a single left-to-right scan over an operand stack and an
// operator stack. Factorials apply immediately to the last completed value.
// Powers and roots wait on the operator stack until something of lower or
// equal binding forces them, so "2^3^2" is 2^(3^2) = 512. There is no unary
// minus; write "0-1" for negative one.
//
// Results are float64. Division by zero and square roots of negative numbers
// produce infinities and NaNs rather than errors. Factorials are computed in
// 64-bit integers and silently wrap past 20!.
//
package calc
