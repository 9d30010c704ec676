package token

import "fmt"

// LexError reports a malformed lexeme: unterminated string, unterminated
// block comment, invalid UTF-8, or a numeric/timestamp/uuid literal that
// fails to parse. Corresponds to spec.md's ParseError::LexError.
type LexError struct {
	Span    Span
	Kind    string // machine-readable kind, e.g. "unterminated_string"
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Span, e.Message, e.Kind)
}
