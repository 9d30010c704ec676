// Package canonicalize implements the ICL normalizer: it turns a parsed AST
// into a canonical AST, renders canonical text, and computes the SHA-256
// semantic hash over that text.
package canonicalize

import (
	"sort"

	"github.com/icl-run/icl-core/pkg/ast"
)

// sortedStrings returns a new, byte-lexicographically sorted copy of ss,
// used for the semantically-unordered list fields (§4.3 rule 4).
func sortedStrings(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sort.Strings(out)
	return out
}

// sortedKeys returns the keys of a map[string]T sorted byte-lexicographically,
// used to derive canonical field order from a decoded object.
func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// sortValueTree returns a copy of v with every nested object's field order
// sorted alphabetically and every TypeExpression's enum variant list sorted
// byte-lexicographically. Used to canonicalize Extensions bodies, whose
// contents the core preserves and hashes but never interprets.
func sortValueTree(v *ast.Value) *ast.Value {
	if v == nil {
		return nil
	}
	cp := *v
	switch v.Kind {
	case ast.ValueObject:
		cp.Order = sortedKeys(v.Object)
		cp.Object = make(map[string]*ast.Value, len(v.Object))
		for k, child := range v.Object {
			cp.Object[k] = sortValueTree(child)
		}
	case ast.ValueArray:
		cp.Array = make([]*ast.Value, len(v.Array))
		for i, child := range v.Array {
			cp.Array[i] = sortValueTree(child)
		}
	case ast.ValueType:
		cp.Type = sortTypeExpression(v.Type)
	}
	return &cp
}

func sortTypeExpression(t *ast.TypeExpression) *ast.TypeExpression {
	if t == nil {
		return nil
	}
	cp := *t
	switch t.Kind {
	case ast.TypeEnum:
		cp.EnumVariants = sortedStrings(t.EnumVariants)
	case ast.TypeObject:
		cp.ObjectOrder = sortedKeys(t.ObjectFields)
		cp.ObjectFields = make(map[string]*ast.TypeExpression, len(t.ObjectFields))
		for k, f := range t.ObjectFields {
			cp.ObjectFields[k] = sortTypeExpression(f)
		}
	case ast.TypeArray:
		cp.Element = sortTypeExpression(t.Element)
	case ast.TypeMap:
		cp.Key = sortTypeExpression(t.Key)
		cp.Value = sortTypeExpression(t.Value)
	}
	return &cp
}
