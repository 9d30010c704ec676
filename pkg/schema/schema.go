// Package schema translates ICL TypeExpression nodes into JSON Schema, used
// to structurally validate executor request inputs (§4.5 step 2) before
// any precondition or predicate evaluation runs.
package schema

import "github.com/icl-run/icl-core/pkg/ast"

// FromTypeExpression renders t as a JSON-Schema-shaped map, suitable for
// json.Marshal and compilation by santhosh-tekuri/jsonschema.
func FromTypeExpression(t *ast.TypeExpression) map[string]any {
	if t == nil {
		return map[string]any{}
	}
	switch t.Kind {
	case ast.TypePrimitive:
		return primitiveSchema(t.Primitive)
	case ast.TypeEnum:
		variants := make([]any, len(t.EnumVariants))
		for i, v := range t.EnumVariants {
			variants[i] = v
		}
		return map[string]any{"type": "string", "enum": variants}
	case ast.TypeArray:
		return map[string]any{"type": "array", "items": FromTypeExpression(t.Element)}
	case ast.TypeMap:
		return map[string]any{"type": "object", "additionalProperties": FromTypeExpression(t.Value)}
	case ast.TypeObject:
		props := map[string]any{}
		required := make([]any, 0, len(t.ObjectOrder))
		for _, name := range t.ObjectOrder {
			props[name] = FromTypeExpression(t.ObjectFields[name])
			required = append(required, name)
		}
		return map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	default:
		return map[string]any{}
	}
}

func primitiveSchema(p ast.Primitive) map[string]any {
	switch p {
	case ast.PrimitiveString:
		return map[string]any{"type": "string"}
	case ast.PrimitiveInteger:
		return map[string]any{"type": "integer"}
	case ast.PrimitiveFloat:
		return map[string]any{"type": "number"}
	case ast.PrimitiveBoolean:
		return map[string]any{"type": "boolean"}
	case ast.PrimitiveIso8601:
		return map[string]any{"type": "string", "format": "date-time"}
	case ast.PrimitiveUuid:
		return map[string]any{"type": "string", "format": "uuid"}
	default:
		return map[string]any{}
	}
}
