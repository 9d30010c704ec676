package canonicalize

import (
	"sort"

	"github.com/icl-run/icl-core/pkg/ast"
)

// Normalize produces a new canonical Contract: sections in fixed order
// (enforced by the renderer, not by struct shape), alphabetically-ordered
// object fields, semantically-unordered lists sorted, and enum variant
// lists sorted. The input Contract is never mutated.
func Normalize(c *ast.Contract) *ast.Contract {
	if c == nil {
		return nil
	}
	out := *c

	if c.DataSemantics != nil {
		ds := *c.DataSemantics
		ds.StateOrder = sortedKeys(c.DataSemantics.State)
		ds.State = make(map[string]*ast.StateField, len(c.DataSemantics.State))
		for k, f := range c.DataSemantics.State {
			nf := *f
			nf.Type = sortTypeExpression(f.Type)
			ds.State[k] = &nf
		}
		out.DataSemantics = &ds
	}

	if c.BehavioralSemantics != nil {
		bs := *c.BehavioralSemantics
		bs.Operations = make([]*ast.Operation, len(c.BehavioralSemantics.Operations))
		for i, op := range c.BehavioralSemantics.Operations {
			nop := *op
			if op.Parameters != nil {
				nop.ParamOrder = sortedKeys(op.Parameters)
				nop.Parameters = make(map[string]*ast.OperationParam, len(op.Parameters))
				for k, param := range op.Parameters {
					np := *param
					np.Type = sortTypeExpression(param.Type)
					nop.Parameters[k] = &np
				}
			}
			bs.Operations[i] = &nop
		}
		out.BehavioralSemantics = &bs
	}

	if c.ExecutionConstraints != nil {
		ec := *c.ExecutionConstraints
		ec.TriggerTypes = sortedStrings(c.ExecutionConstraints.TriggerTypes)
		ec.ExternalPermissions = sortedStrings(c.ExecutionConstraints.ExternalPermissions)
		out.ExecutionConstraints = &ec
	}

	if len(c.Extensions) > 0 {
		exts := make([]*ast.ExtensionBlock, len(c.Extensions))
		copy(exts, c.Extensions)
		sort.Slice(exts, func(i, j int) bool { return exts[i].Namespace < exts[j].Namespace })
		for i, e := range exts {
			ne := *e
			ne.Body = sortValueTree(e.Body)
			exts[i] = &ne
		}
		out.Extensions = exts
	}

	out.SourceOrder = append([]ast.SectionName{}, ast.CanonicalSectionOrder...)
	return &out
}
