package verifier

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/predicate"
)

func checkCoherence(c *ast.Contract, col *collector) {
	if c.BehavioralSemantics != nil {
		checkOperationNamesUnique(c.BehavioralSemantics.Operations, col)
		checkPreconditionPostconditionContradiction(c.BehavioralSemantics.Operations, col)
		if c.DataSemantics != nil {
			checkDependencyGraphAcyclic(c, col)
		}
	}
	if c.ExecutionConstraints != nil {
		checkResourceLimitsPositive(c.ExecutionConstraints, col)
		checkSandboxConsistency(c.ExecutionConstraints, col)
	}
	checkExtensionNamespaces(c, col)
}

func checkOperationNamesUnique(ops []*ast.Operation, col *collector) {
	seen := map[string]bool{}
	for _, op := range ops {
		if seen[op.Name] {
			col.err(diag.New(diag.PhaseCoherence, diag.CodeDuplicateOperation,
				"duplicate operation name "+op.Name).WithSpan(op.Span).WithPath("BehavioralSemantics.operations"))
		}
		seen[op.Name] = true
	}
}

// checkPreconditionPostconditionContradiction rejects a precondition and
// postcondition that are a trivial `P` / `!P` contradiction on the same
// atomic symbol, detected structurally rather than by string comparison so
// that whitespace differences don't hide the contradiction.
func checkPreconditionPostconditionContradiction(ops []*ast.Operation, col *collector) {
	for _, op := range ops {
		if op.Precondition == "" || op.Postcondition == "" {
			continue
		}
		pre, err1 := predicate.Parse(op.Precondition)
		post, err2 := predicate.Parse(op.Postcondition)
		if err1 != nil || err2 != nil {
			continue
		}
		if isNegationOf(post, pre) || isNegationOf(pre, post) {
			col.err(diag.New(diag.PhaseCoherence, diag.CodeContradiction,
				fmt.Sprintf("operation %s: precondition and postcondition contradict", op.Name)).
				WithSpan(op.Span).WithPath("BehavioralSemantics.operations."+op.Name))
		}
	}
}

func isNegationOf(a, b predicate.Expr) bool {
	u, ok := a.(predicate.Unary)
	if !ok || u.Op != "!" {
		return false
	}
	return reflect.DeepEqual(u.X, b)
}

// checkDependencyGraphAcyclic builds a dependency graph from side_effects
// entries of the form "modifies:<field>" or "set:<field>=<expr>": an edge
// runs from the operation
// that modifies a field to every other operation whose precondition,
// postcondition, or computation references that field, since the latter
// depends on a value the former produces.
func checkDependencyGraphAcyclic(c *ast.Contract, col *collector) {
	ops := c.BehavioralSemantics.Operations
	modifies := make([]map[string]bool, len(ops))
	references := make([]map[string]bool, len(ops))
	for i, op := range ops {
		modifies[i] = map[string]bool{}
		for _, se := range op.SideEffects {
			if field, ok := strings.CutPrefix(se, "modifies:"); ok {
				modifies[i][field] = true
			}
			if rest, ok := strings.CutPrefix(se, "set:"); ok {
				if eq := strings.IndexByte(rest, '='); eq > 0 {
					modifies[i][rest[:eq]] = true
				}
			}
		}
		references[i] = map[string]bool{}
		for _, s := range []string{op.Precondition, op.Postcondition, op.Computation} {
			for name := range c.DataSemantics.State {
				if strings.Contains(s, name) {
					references[i][name] = true
				}
			}
		}
	}

	adj := make([][]int, len(ops))
	for i := range ops {
		for j := range ops {
			if i == j {
				continue
			}
			for field := range modifies[i] {
				if references[j][field] {
					adj[i] = append(adj[i], j)
					break
				}
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(ops))
	var hasCycle bool
	var visit func(int)
	visit = func(u int) {
		if hasCycle {
			return
		}
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				hasCycle = true
				return
			}
			if color[v] == white {
				visit(v)
			}
		}
		color[u] = black
	}
	for i := range ops {
		if color[i] == white {
			visit(i)
		}
		if hasCycle {
			break
		}
	}
	if hasCycle {
		col.err(diag.New(diag.PhaseCoherence, diag.CodeDependencyCycle,
			"operation dependency graph (via shared state-field mutation) contains a cycle").
			WithPath("BehavioralSemantics.operations"))
	}
}

func checkResourceLimitsPositive(ec *ast.ExecutionConstraints, col *collector) {
	if ec.ResourceLimits == nil {
		return
	}
	rl := ec.ResourceLimits
	path := "ExecutionConstraints.resource_limits"
	if rl.MaxMemoryBytes <= 0 {
		col.err(diag.New(diag.PhaseCoherence, diag.CodeBadResourceLimits, "max_memory_bytes must be > 0").WithSpan(rl.Span).WithPath(path))
	}
	if rl.ComputationTimeoutMs <= 0 {
		col.err(diag.New(diag.PhaseCoherence, diag.CodeBadResourceLimits, "computation_timeout_ms must be > 0").WithSpan(rl.Span).WithPath(path))
	}
	if rl.MaxStateSizeBytes <= 0 {
		col.err(diag.New(diag.PhaseCoherence, diag.CodeBadResourceLimits, "max_state_size_bytes must be > 0").WithSpan(rl.Span).WithPath(path))
	}
}

func checkSandboxConsistency(ec *ast.ExecutionConstraints, col *collector) {
	path := "ExecutionConstraints"
	switch ec.SandboxMode {
	case ast.SandboxFullIsolation:
		if len(ec.ExternalPermissions) > 0 {
			col.err(diag.New(diag.PhaseCoherence, diag.CodeSandboxMismatch,
				"sandbox_mode full_isolation requires external_permissions to be empty").WithSpan(ec.Span).WithPath(path))
		}
	case ast.SandboxNone:
		col.warn(diag.New(diag.PhaseCoherence, diag.CodeSandboxMismatch,
			"sandbox_mode none disables all sandboxing guarantees").WithSpan(ec.Span).WithPath(path))
	}
}

func checkExtensionNamespaces(c *ast.Contract, col *collector) {
	core := map[string]bool{}
	for _, s := range ast.CanonicalSectionOrder {
		core[string(s)] = true
	}
	seen := map[string]bool{}
	for _, ext := range c.Extensions {
		if core[ext.Namespace] {
			col.err(diag.New(diag.PhaseCoherence, diag.CodeNamespaceCollision,
				"extension namespace "+ext.Namespace+" collides with a core section name").WithSpan(ext.Span).WithPath("Extensions."+ext.Namespace))
		}
		if seen[ext.Namespace] {
			col.err(diag.New(diag.PhaseCoherence, diag.CodeNamespaceCollision,
				"duplicate extension namespace "+ext.Namespace).WithSpan(ext.Span).WithPath("Extensions."+ext.Namespace))
		}
		seen[ext.Namespace] = true
	}
}
