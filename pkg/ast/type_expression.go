package ast

import "github.com/icl-run/icl-core/pkg/token"

// TypeKind tags the shape of a TypeExpression.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypeEnum
	TypeObject
	TypeArray
	TypeMap
)

// Primitive names one of the six scalar primitive types.
type Primitive string

const (
	PrimitiveString  Primitive = "String"
	PrimitiveInteger Primitive = "Integer"
	PrimitiveFloat   Primitive = "Float"
	PrimitiveBoolean Primitive = "Boolean"
	PrimitiveIso8601 Primitive = "Iso8601"
	PrimitiveUuid    Primitive = "Uuid"
)

// TypeExpression is the tagged variant described in §3.2: Primitive, Enum,
// Object (mapping name to TypeExpression), Array, or Map. An optional
// Default literal may accompany any variant via the `T = literal` form.
type TypeExpression struct {
	Kind TypeKind
	Span token.Span

	Primitive Primitive // TypePrimitive

	EnumVariants []string // TypeEnum, source order preserved until normalization sorts it

	// ObjectFields indexes by name; ObjectOrder preserves source order.
	ObjectFields map[string]*TypeExpression // TypeObject
	ObjectOrder  []string

	Element *TypeExpression // TypeArray

	Key   *TypeExpression // TypeMap
	Value *TypeExpression // TypeMap

	Default *Literal // optional `= literal`
}

// IsWellFormed reports the structural invariants of §3.3: no empty Object,
// no empty Enum, no dangling Array/Map element type.
func (t *TypeExpression) IsWellFormed() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypePrimitive:
		return t.Primitive != ""
	case TypeEnum:
		return len(t.EnumVariants) > 0
	case TypeObject:
		if len(t.ObjectFields) == 0 {
			return false
		}
		for _, f := range t.ObjectFields {
			if !f.IsWellFormed() {
				return false
			}
		}
		return true
	case TypeArray:
		return t.Element != nil && t.Element.IsWellFormed()
	case TypeMap:
		return t.Key != nil && t.Value != nil && t.Key.IsWellFormed() && t.Value.IsWellFormed()
	default:
		return false
	}
}

// CanonicalName renders the long-form type spelling used in canonical text
// (§4.3 rule 6): "Array<String>", "Map<String,Integer>", bare primitive
// names, "Enum[a,b,c]" with variants in their stored (already-sorted, for
// canonical trees) order, or an inline object block spelling.
func (t *TypeExpression) CanonicalName() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypePrimitive:
		return string(t.Primitive)
	case TypeEnum:
		out := "Enum["
		for i, v := range t.EnumVariants {
			if i > 0 {
				out += ","
			}
			out += v
		}
		return out + "]"
	case TypeArray:
		return "Array<" + t.Element.CanonicalName() + ">"
	case TypeMap:
		return "Map<" + t.Key.CanonicalName() + "," + t.Value.CanonicalName() + ">"
	case TypeObject:
		out := "{"
		for i, name := range t.ObjectOrder {
			if i > 0 {
				out += ","
			}
			out += name + ":" + t.ObjectFields[name].CanonicalName()
		}
		return out + "}"
	default:
		return ""
	}
}
