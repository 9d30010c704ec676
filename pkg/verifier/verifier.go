// Package verifier implements the four-phase ICL static verifier: type,
// invariant, determinism, and coherence checking over a parsed AST (§4.4).
package verifier

import (
	"context"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/predicate"
)

// Report is the result of verifying a Contract. It is valid iff Errors is
// empty; Warnings never affect validity.
type Report struct {
	Valid    bool             `json:"valid"`
	Errors   []diag.Diagnostic `json:"errors"`
	Warnings []diag.Diagnostic `json:"warnings"`
}

type collector struct {
	errors   []diag.Diagnostic
	warnings []diag.Diagnostic
}

func (c *collector) err(d diag.Diagnostic) {
	c.errors = append(c.errors, d)
}

func (c *collector) warn(d diag.Diagnostic) {
	c.warnings = append(c.warnings, d)
}

// Verify runs all four phases in fixed order over c, using the uncached
// package-level predicate.StaticCheck for Phase 1 symbol checks. This is
// the pure entry point pkg/icl.Verify builds on.
func Verify(c *ast.Contract) *Report {
	return VerifyWithChecker(context.Background(), c, predicate.DefaultStaticChecker)
}

// VerifyWithChecker runs all four phases in fixed order over c like Verify,
// but resolves Phase 1 symbol checks (§4.4) through checker instead of the
// uncached package-level predicate.StaticCheck — callers that verify the
// same predicate strings repeatedly (a long-lived server, a batch verifier)
// can pass a predicate.RedisProgramCache to skip repeat CEL compilation.
// Later phases always run, even when earlier phases produced errors; every
// diagnostic from every phase is returned together.
func VerifyWithChecker(ctx context.Context, c *ast.Contract, checker predicate.StaticChecker) *Report {
	col := &collector{}
	if c != nil {
		checkTypes(ctx, c, col, checker)
		checkInvariants(c, col)
		checkDeterminism(c, col)
		checkCoherence(c, col)
	}
	if col.errors == nil {
		col.errors = []diag.Diagnostic{}
	}
	if col.warnings == nil {
		col.warnings = []diag.Diagnostic{}
	}
	return &Report{Valid: len(col.errors) == 0, Errors: col.errors, Warnings: col.warnings}
}
