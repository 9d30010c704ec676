package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/schema"
)

func TestCompileObjectSchemaAcceptsValidInput(t *testing.T) {
	params := map[string]*ast.TypeExpression{
		"name": {Kind: ast.TypePrimitive, Primitive: ast.PrimitiveString},
		"age":  {Kind: ast.TypePrimitive, Primitive: ast.PrimitiveInteger},
	}
	v, err := schema.CompileObjectSchema(params, []string{"name", "age"})
	require.NoError(t, err)

	require.NoError(t, v.Validate(map[string]any{"name": "World", "age": int64(3)}))
}

func TestCompileObjectSchemaRejectsMissingRequiredField(t *testing.T) {
	params := map[string]*ast.TypeExpression{
		"name": {Kind: ast.TypePrimitive, Primitive: ast.PrimitiveString},
	}
	v, err := schema.CompileObjectSchema(params, []string{"name"})
	require.NoError(t, err)

	require.Error(t, v.Validate(map[string]any{}))
}

func TestCompileObjectSchemaRejectsExtraField(t *testing.T) {
	params := map[string]*ast.TypeExpression{
		"name": {Kind: ast.TypePrimitive, Primitive: ast.PrimitiveString},
	}
	v, err := schema.CompileObjectSchema(params, []string{"name"})
	require.NoError(t, err)

	require.Error(t, v.Validate(map[string]any{"name": "World", "extra": true}))
}

func TestCompileObjectSchemaRejectsWrongType(t *testing.T) {
	params := map[string]*ast.TypeExpression{
		"age": {Kind: ast.TypePrimitive, Primitive: ast.PrimitiveInteger},
	}
	v, err := schema.CompileObjectSchema(params, []string{"age"})
	require.NoError(t, err)

	require.Error(t, v.Validate(map[string]any{"age": "not a number"}))
}

func TestFromTypeExpressionArrayAndMap(t *testing.T) {
	arr := &ast.TypeExpression{Kind: ast.TypeArray, Element: &ast.TypeExpression{Kind: ast.TypePrimitive, Primitive: ast.PrimitiveString}}
	out := schema.FromTypeExpression(arr)
	require.Equal(t, "array", out["type"])

	m := &ast.TypeExpression{
		Kind:  ast.TypeMap,
		Key:   &ast.TypeExpression{Kind: ast.TypePrimitive, Primitive: ast.PrimitiveString},
		Value: &ast.TypeExpression{Kind: ast.TypePrimitive, Primitive: ast.PrimitiveFloat},
	}
	out = schema.FromTypeExpression(m)
	require.Equal(t, "object", out["type"])
}

func TestFromTypeExpressionEnum(t *testing.T) {
	e := &ast.TypeExpression{Kind: ast.TypeEnum, EnumVariants: []string{"a", "b"}}
	out := schema.FromTypeExpression(e)
	require.Equal(t, "string", out["type"])
	require.Equal(t, []any{"a", "b"}, out["enum"])
}
