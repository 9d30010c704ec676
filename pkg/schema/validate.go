package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/icl-run/icl-core/pkg/ast"
)

// Validator compiles a TypeExpression into a reusable JSON Schema
// validator, mirroring the compile-once-validate-many shape used
// elsewhere in the pack for request-shape enforcement.
type Validator struct {
	schema *jsonschema.Schema
}

// CompileObjectSchema compiles a schema over a mapping of parameter name to
// TypeExpression, the shape an Operation's request inputs must satisfy.
func CompileObjectSchema(params map[string]*ast.TypeExpression, order []string) (*Validator, error) {
	props := map[string]any{}
	required := make([]any, 0, len(order))
	for _, name := range order {
		props[name] = FromTypeExpression(params[name])
		required = append(required, name)
	}
	doc := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
	return compile(doc)
}

func compile(doc map[string]any) (*Validator, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal document: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	const resourceURI = "mem://icl/request-schema.json"
	if err := compiler.AddResource(resourceURI, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("schema: add resource: %w", err)
	}
	sch, err := compiler.Compile(resourceURI)
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Validate checks data (already json.Unmarshal-ed into Go values) against
// the compiled schema.
func (v *Validator) Validate(data any) error {
	return v.schema.Validate(data)
}
