package verifier

import (
	"context"
	"fmt"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/predicate"
	"github.com/icl-run/icl-core/pkg/token"
)

func checkTypes(ctx context.Context, c *ast.Contract, col *collector, checker predicate.StaticChecker) {
	if c.DataSemantics != nil {
		for name, f := range c.DataSemantics.State {
			path := "DataSemantics.state." + name
			if !f.Type.IsWellFormed() {
				col.err(diag.New(diag.PhaseType, diag.CodeInvalidType, "malformed type expression for state field "+name).WithSpan(f.Span).WithPath(path))
				continue
			}
			checkNoImplicitCoercion(col, diag.PhaseType, path, f.Type)
		}
		for i, inv := range c.DataSemantics.Invariants {
			path := fmt.Sprintf("DataSemantics.invariants[%d]", i)
			checkPredicateSyntax(ctx, col, checker, path, inv, stateFieldNames(c))
		}
	}

	if c.BehavioralSemantics != nil {
		for _, op := range c.BehavioralSemantics.Operations {
			opPath := "BehavioralSemantics.operations." + op.Name
			for pname, p := range op.Parameters {
				ppath := opPath + ".parameters." + pname
				if !p.Type.IsWellFormed() {
					col.err(diag.New(diag.PhaseType, diag.CodeInvalidType, "malformed type expression for parameter "+pname).WithSpan(p.Span).WithPath(ppath))
					continue
				}
				checkNoImplicitCoercion(col, diag.PhaseType, ppath, p.Type)
			}
			syms := operationSymbols(c, op)
			checkPredicateSyntax(ctx, col, checker, opPath+".precondition", op.Precondition, syms)
			checkPredicateSyntax(ctx, col, checker, opPath+".postcondition", op.Postcondition, syms)
			if op.HasComputation {
				checkPredicateSyntax(ctx, col, checker, opPath+".computation", op.Computation, syms)
			}
		}
	}

	if c.ExecutionConstraints != nil && c.ExecutionConstraints.ResourceLimits != nil {
		rl := c.ExecutionConstraints.ResourceLimits
		path := "ExecutionConstraints.resource_limits"
		if rl.MaxMemoryBytes < 0 {
			col.err(diag.New(diag.PhaseType, diag.CodeBadResourceLimits, "max_memory_bytes must be non-negative").WithSpan(rl.Span).WithPath(path + ".max_memory_bytes"))
		}
		if rl.ComputationTimeoutMs < 0 {
			col.err(diag.New(diag.PhaseType, diag.CodeBadResourceLimits, "computation_timeout_ms must be non-negative").WithSpan(rl.Span).WithPath(path + ".computation_timeout_ms"))
		}
		if rl.MaxStateSizeBytes < 0 {
			col.err(diag.New(diag.PhaseType, diag.CodeBadResourceLimits, "max_state_size_bytes must be non-negative").WithSpan(rl.Span).WithPath(path + ".max_state_size_bytes"))
		}
	}
}

// checkNoImplicitCoercion enforces that a default literal's token kind is
// the exact declared primitive kind, with no implicit coercion (§4.4
// Phase 1, §1 Non-goal c).
func checkNoImplicitCoercion(col *collector, phase diag.Phase, path string, t *ast.TypeExpression) {
	if t == nil || t.Default == nil || t.Kind != ast.TypePrimitive {
		return
	}
	want := map[ast.Primitive]token.Kind{
		ast.PrimitiveString:  token.StringLit,
		ast.PrimitiveInteger: token.IntLit,
		ast.PrimitiveFloat:   token.FloatLit,
		ast.PrimitiveBoolean: token.BoolLit,
		ast.PrimitiveIso8601: token.TimestampLit,
		ast.PrimitiveUuid:    token.UuidLit,
	}[t.Primitive]
	if t.Default.Kind != want {
		col.err(diag.New(phase, diag.CodeInvalidType,
			fmt.Sprintf("default value for %s must be a literal of exact type %s", path, t.Primitive)).
			WithSpan(t.Default.Span).WithPath(path))
	}
}

// checkPredicateSyntax applies the Phase 1 symbol check shared by
// invariants, preconditions, postconditions, and computation strings: any
// referenced symbol that is not declared yields an UndefinedSymbol warning
// (not an error, since the predicate DSL is not part of Core evaluation per
// §4.4). An empty string is skipped: an empty invariant is reported in
// Phase 2, and an empty precondition, postcondition, or computation is not
// reported.
func checkPredicateSyntax(ctx context.Context, col *collector, checker predicate.StaticChecker, path string, expr string, declared []string) {
	if expr == "" {
		return // only empty invariants are reported, in Phase 2
	}
	undefined, err := checker.StaticCheck(ctx, expr, declared)
	if err != nil {
		return // malformed predicate syntax; left to the executor's own parse-on-evaluate failure
	}
	for _, name := range undefined {
		col.warn(diag.New(diag.PhaseType, diag.CodeUndefinedSymbol,
			fmt.Sprintf("%s references undefined symbol %q", path, name)).WithPath(path))
	}
}
