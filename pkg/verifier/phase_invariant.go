package verifier

import (
	"fmt"
	"strings"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/predicate"
)

func checkInvariants(c *ast.Contract, col *collector) {
	if c.DataSemantics == nil {
		return
	}
	ds := c.DataSemantics

	seen := map[string]bool{}
	for i, inv := range ds.Invariants {
		path := fmt.Sprintf("DataSemantics.invariants[%d]", i)
		span := ds.InvariantSpans[i]

		if strings.TrimSpace(inv) == "" {
			col.err(diag.New(diag.PhaseInvariant, diag.CodeEmptyInvariant, "invariant string must not be empty").WithSpan(span).WithPath(path))
			continue
		}

		norm := strings.Join(strings.Fields(inv), " ")
		if seen[norm] {
			col.warn(diag.New(diag.PhaseInvariant, diag.CodeDuplicateInvariant, "duplicate invariant: "+inv).WithSpan(span).WithPath(path))
		}
		seen[norm] = true

		checkTrivialFalsification(ds, inv, path, col)
	}
}

// checkTrivialFalsification rejects an invariant of the exact form
// `<field> == <literal>` (or reversed) whose declared default value does
// not match the literal, per §4.4 Phase 2.
func checkTrivialFalsification(ds *ast.DataSemantics, inv string, path string, col *collector) {
	expr, err := predicate.Parse(inv)
	if err != nil {
		return
	}
	bin, ok := expr.(predicate.Binary)
	if !ok || bin.Op != "==" {
		return
	}
	fieldName, lit, ok := fieldEqualsLiteral(bin)
	if !ok {
		return
	}
	f, ok := ds.State[fieldName]
	if !ok || f.Type == nil || f.Type.Default == nil {
		return
	}
	if !defaultEqualsLiteral(f.Type.Default, lit) {
		col.err(diag.New(diag.PhaseInvariant, diag.CodeTrivialFalsify,
			fmt.Sprintf("invariant %q is trivially falsified by the declared default of %s", inv, fieldName)).
			WithSpan(f.Span).WithPath(path))
	}
}

func fieldEqualsLiteral(bin predicate.Binary) (string, predicate.Lit, bool) {
	if id, ok := bin.L.(predicate.Ident); ok {
		if lit, ok := bin.R.(predicate.Lit); ok {
			return id.Name, lit, true
		}
	}
	if id, ok := bin.R.(predicate.Ident); ok {
		if lit, ok := bin.L.(predicate.Lit); ok {
			return id.Name, lit, true
		}
	}
	return "", predicate.Lit{}, false
}

func defaultEqualsLiteral(def *ast.Literal, lit predicate.Lit) bool {
	switch lit.Value.Kind {
	case predicate.KindInt:
		return def.Int == lit.Value.I
	case predicate.KindFloat:
		return def.Float == lit.Value.F
	case predicate.KindBool:
		return def.Bool == lit.Value.B
	case predicate.KindString:
		return def.Text == lit.Value.S
	default:
		return true
	}
}
