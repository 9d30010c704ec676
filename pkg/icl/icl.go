// Package icl is the public facade over the ICL pipeline: parse, normalize,
// verify, execute, and hash a contract from its source text. Every entry
// point here is pure — no ambient I/O, no clock, no logging — matching the
// boundary contract callers (bindings, CLI, pkg/store's AuditedExecutor)
// build on top of (§6.1).
package icl

import (
	"encoding/json"
	"fmt"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/canonicalize"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/executor"
	"github.com/icl-run/icl-core/pkg/parser"
	"github.com/icl-run/icl-core/pkg/verifier"
)

// ParseError reports one or more structured diagnostics from a failed
// parse. Callers that need the raw diagnostics list use errors.As.
type ParseError struct {
	Diagnostics []diag.Diagnostic
}

func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "icl: parse error"
	}
	return fmt.Sprintf("icl: parse error: %s", e.Diagnostics[0].Message)
}

func parseOrError(text string) (*ast.Contract, error) {
	c, errs := parser.Parse(text)
	if len(errs) > 0 {
		return nil, &ParseError{Diagnostics: errs}
	}
	return c, nil
}

// ParseContract parses text and returns its AST, or a *ParseError.
func ParseContract(text string) (*ast.Contract, error) {
	return parseOrError(text)
}

// Normalize returns the canonical text rendering of text's contract.
func Normalize(text string) (string, error) {
	c, err := parseOrError(text)
	if err != nil {
		return "", err
	}
	n := canonicalize.Normalize(c)
	return canonicalize.RenderCanonical(n, false), nil
}

// Verify parses and statically verifies text, returning the diagnostics
// report. Verify itself never fails once parsing succeeds (§6.1).
func Verify(text string) (*verifier.Report, error) {
	c, err := parseOrError(text)
	if err != nil {
		return nil, err
	}
	return verifier.Verify(c), nil
}

// SemanticHash returns the 64 hex character SHA-256 semantic hash of text's
// normalized contract.
func SemanticHash(text string) (string, error) {
	c, err := parseOrError(text)
	if err != nil {
		return "", err
	}
	n := canonicalize.Normalize(c)
	return canonicalize.SemanticHash(n), nil
}

// ExecutionError wraps a verification failure encountered before Execute is
// permitted to run; Execute refuses to run against a contract with static
// errors (§6.1: "execute" can fail for a parse, verify, or execute reason).
type ExecutionError struct {
	Report *verifier.Report
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("icl: contract fails verification (%d errors)", len(e.Report.Errors))
}

// Execute parses, verifies, and — only if verification reports no errors —
// runs requestsJSON against text's contract, returning the JSON execution
// result string.
func Execute(text, requestsJSON string) (string, error) {
	c, err := parseOrError(text)
	if err != nil {
		return "", err
	}
	report := verifier.Verify(c)
	if !report.Valid {
		return "", &ExecutionError{Report: report}
	}
	return executor.Execute(c, requestsJSON)
}

// MarshalReport renders a verifier.Report as JSON matching §6.1's
// `{valid, errors, warnings}` shape.
func MarshalReport(r *verifier.Report) (string, error) {
	out, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("icl: marshal report: %w", err)
	}
	return string(out), nil
}
