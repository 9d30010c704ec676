// Package diag defines the single Diagnostic shape shared by the parser
// and verifier.
package diag

import "github.com/icl-run/icl-core/pkg/token"

// Phase tags which pipeline stage produced a Diagnostic.
type Phase string

const (
	PhaseLex         Phase = "lex"
	PhaseParse       Phase = "parse"
	PhaseNormalize   Phase = "normalize"
	PhaseType        Phase = "type"
	PhaseInvariant   Phase = "invariant"
	PhaseDeterminism Phase = "determinism"
	PhaseCoherence   Phase = "coherence"
	PhaseExecute     Phase = "execute"
)

// Code is a closed, machine-readable diagnostic code. Bindings switch on
// this value rather than parsing Message.
type Code string

const (
	CodeLexError          Code = "LexError"
	CodeUnexpectedToken   Code = "UnexpectedToken"
	CodeDuplicateSection  Code = "DuplicateSection"
	CodeMissingSection    Code = "MissingSection"
	CodeMalformedField    Code = "MalformedField"
	CodeInvalidType       Code = "InvalidType"
	CodeUndefinedSymbol   Code = "UndefinedSymbol"
	CodeEmptyInvariant    Code = "EmptyInvariant"
	CodeDuplicateInvariant Code = "DuplicateInvariant"
	CodeTrivialFalsify    Code = "TrivialFalsify"
	CodeDeterminism       Code = "Determinism"
	CodeFloatEquality     Code = "FloatEquality"
	CodeContradiction     Code = "Contradiction"
	CodeDuplicateOperation Code = "DuplicateOperation"
	CodeDependencyCycle   Code = "DependencyCycle"
	CodeBadResourceLimits Code = "BadResourceLimits"
	CodeSandboxMismatch   Code = "SandboxMismatch"
	CodeNamespaceCollision Code = "NamespaceCollision"
)

// Span is the line/column projection of a token.Span used in Diagnostic
// output, matching the {line, col} shape at the JSON boundary.
type Span struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// FromTokenSpan projects a token.Span into a diag.Span.
func FromTokenSpan(s token.Span) Span {
	return Span{Line: s.Line, Col: s.Col}
}

// Diagnostic is the single structured shape returned pipeline-wide.
type Diagnostic struct {
	Phase   Phase  `json:"phase"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
	Path    string `json:"path,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// New builds a Diagnostic with no span or path, for cases where neither
// applies (e.g. a whole-contract determinism failure).
func New(phase Phase, code Code, message string) Diagnostic {
	return Diagnostic{Phase: phase, Code: code, Message: message}
}

// WithSpan returns a copy of d with its span set from a token.Span.
func (d Diagnostic) WithSpan(s token.Span) Diagnostic {
	sp := FromTokenSpan(s)
	d.Span = &sp
	return d
}

// WithPath returns a copy of d with its AST path set.
func (d Diagnostic) WithPath(path string) Diagnostic {
	d.Path = path
	return d
}

// WithHint returns a copy of d with a human hint attached.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}
