// Package token implements the ICL tokenizer: a pure function from UTF-8
// source bytes to a finite stream of tagged tokens carrying source spans.
package token

import "fmt"

// Span identifies a single-point source location: byte offset, 1-based
// line, and 1-based column. Every token and every AST node carries one for
// diagnostics.
type Span struct {
	Offset int
	Line   int
	Col    int
}

// String renders the span as "line:col", the form diagnostics use.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}
