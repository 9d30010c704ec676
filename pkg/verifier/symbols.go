package verifier

import "github.com/icl-run/icl-core/pkg/ast"

// stateFieldNames returns the declared DataSemantics.state field names.
func stateFieldNames(c *ast.Contract) []string {
	if c.DataSemantics == nil {
		return nil
	}
	names := make([]string, 0, len(c.DataSemantics.State))
	for name := range c.DataSemantics.State {
		names = append(names, name)
	}
	return names
}

// operationSymbols returns the symbols visible to a single Operation's
// predicate strings: every state field plus that operation's own
// parameters.
func operationSymbols(c *ast.Contract, op *ast.Operation) []string {
	syms := stateFieldNames(c)
	for name := range op.Parameters {
		syms = append(syms, name)
	}
	return syms
}
