package verifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/predicate"
)

// forbiddenTokens lists the non-deterministic constructs §4.4 Phase 3
// forbids anywhere in a predicate, computation, or side-effect string.
// Entries ending in "_" are prefix forms (http_get, net_dial, ...).
var forbiddenTokens = []string{
	"random", "rand()", "uuid()", "now()", "current_time", "system_time",
	"read_file", "write_file", "http_", "net_",
}

var forbiddenPatterns = buildForbiddenPatterns()

func buildForbiddenPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(forbiddenTokens))
	for _, tk := range forbiddenTokens {
		if strings.HasSuffix(tk, "_") {
			out[tk] = regexp.MustCompile(`\b` + regexp.QuoteMeta(tk) + `\w*`)
		} else {
			out[tk] = regexp.MustCompile(`\b` + regexp.QuoteMeta(tk))
		}
	}
	return out
}

func checkDeterminism(c *ast.Contract, col *collector) {
	scan := func(path, s string) {
		scanForbiddenTokens(col, path, s)
	}

	if c.DataSemantics != nil {
		for i, inv := range c.DataSemantics.Invariants {
			scan(fmt.Sprintf("DataSemantics.invariants[%d]", i), inv)
			checkFloatEquality(col, fmt.Sprintf("DataSemantics.invariants[%d]", i), inv, c.DataSemantics)
		}
	}

	if c.BehavioralSemantics != nil {
		for _, op := range c.BehavioralSemantics.Operations {
			path := "BehavioralSemantics.operations." + op.Name
			scan(path+".precondition", op.Precondition)
			scan(path+".postcondition", op.Postcondition)
			if op.HasComputation {
				scan(path+".computation", op.Computation)
			}
			for i, se := range op.SideEffects {
				scan(fmt.Sprintf("%s.side_effects[%d]", path, i), se)
			}
		}
	}

	// Iteration-over-unordered-mapping is unreachable by construction: the
	// predicate language (§4.5) exposes no loop or iteration construct, so
	// this determinism rule can never be violated by a valid contract.
}

func scanForbiddenTokens(col *collector, path, s string) {
	for _, tk := range forbiddenTokens {
		re := forbiddenPatterns[tk]
		if loc := re.FindString(s); loc != "" {
			col.err(diag.New(diag.PhaseDeterminism, diag.CodeDeterminism,
				fmt.Sprintf("%s uses forbidden non-deterministic construct %q", path, tk)).WithPath(path))
		}
	}
}

// checkFloatEquality warns when an invariant compares two float-typed
// expressions with ==, per §4.4 Phase 3.
func checkFloatEquality(col *collector, path, inv string, ds *ast.DataSemantics) {
	expr, err := predicate.Parse(inv)
	if err != nil {
		return
	}
	predicate.Walk(expr, func(e predicate.Expr) {
		bin, ok := e.(predicate.Binary)
		if !ok || bin.Op != "==" {
			return
		}
		if isFloatOperand(bin.L, ds) && isFloatOperand(bin.R, ds) {
			col.warn(diag.New(diag.PhaseDeterminism, diag.CodeFloatEquality,
				"floating-point equality in invariant: "+inv).WithPath(path))
		}
	})
}

func isFloatOperand(e predicate.Expr, ds *ast.DataSemantics) bool {
	switch n := e.(type) {
	case predicate.Lit:
		return n.Value.Kind == predicate.KindFloat
	case predicate.Ident:
		f, ok := ds.State[n.Name]
		return ok && f.Type != nil && f.Type.Kind == ast.TypePrimitive && f.Type.Primitive == ast.PrimitiveFloat
	default:
		return false
	}
}
