// Package ast defines the ICL abstract syntax tree: tagged node types with
// source spans preserved at every node, as parsed from source order. The
// tree is immutable after parsing; the normalizer produces new trees rather
// than mutating in place.
package ast

import "github.com/icl-run/icl-core/pkg/token"

// ValueKind tags the shape of a Value node.
type ValueKind int

const (
	ValueLiteral ValueKind = iota
	ValueArray
	ValueObject
	ValueType
)

// Literal is a decoded scalar: string, int, float, bool, timestamp, or uuid.
type Literal struct {
	Kind  token.Kind // token.StringLit, IntLit, FloatLit, BoolLit, TimestampLit, UuidLit
	Text  string
	Int   int64
	Float float64
	Bool  bool
	Span  token.Span
}

// Value is a generic parsed value: a literal, an array `[ ... ]`, an object
// block `{ ... }`, or a TypeExpression. Extensions blocks are stored as
// trees of Value since the core never interprets their contents; ordinary
// sections decode Value trees into their typed node shapes after parsing.
type Value struct {
	Kind ValueKind
	Span token.Span

	Literal *Literal

	Array []*Value

	// Order preserves source field order; Object indexes by name for
	// lookup. Both are populated together.
	Object map[string]*Value
	Order  []string

	Type *TypeExpression
}
