package predicate

import (
	"regexp"

	"github.com/google/cel-go/cel"
)

var undeclaredRefPattern = regexp.MustCompile(`undeclared reference to '([^']+)'`)

// StaticCheck compiles exprText against a CEL environment seeded with
// declared as Dyn-typed variables, purely to catch references to symbols
// that are neither state fields, operation parameters, nor language
// constants (§4.4 Phase 1's UndefinedSymbol warning). It never evaluates
// the expression: CEL's own error-on-unknown-identifier semantics only
// match Core's *static* analysis, not its runtime behavior of treating an
// unresolved identifier as false/null (see Eval).
func StaticCheck(exprText string, declared []string) (undefined []string, syntaxErr error) {
	opts := make([]cel.EnvOption, 0, len(declared))
	for _, name := range declared {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	_, issues := env.Compile(exprText)
	if issues == nil || issues.Err() == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	for _, iss := range issues.Errors() {
		if m := undeclaredRefPattern.FindStringSubmatch(iss.Message); m != nil {
			if !seen[m[1]] {
				seen[m[1]] = true
				undefined = append(undefined, m[1])
			}
		}
	}
	if len(undefined) == 0 {
		return nil, issues.Err()
	}
	return undefined, nil
}
