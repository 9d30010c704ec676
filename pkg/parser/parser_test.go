package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/parser"
)

const greetContract = `Contract {
  Identity { stable_id: "greet-service", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "team-hello", semantic_hash: "" }
  PurposeStatement { narrative: "Greets a caller.", intent_source: "hello world test", confidence_level: 1.0 }
  DataSemantics { state: { greeting_count: Integer = 0 }, invariants: ["greeting_count >= 0"] }
  BehavioralSemantics {
    operations: [
      { name: "greet", trigger: manual, precondition: "true", parameters: { name: String }, postcondition: "true", side_effects: ["set:greeting_count=greeting_count+1"], idempotence: non_idempotent },
    ]
  }
  ExecutionConstraints {
    trigger_types: ["manual"], resource_limits: { max_memory_bytes: 1048576, computation_timeout_ms: 1000, max_state_size_bytes: 4096 }, external_permissions: [], sandbox_mode: full_isolation
  }
  HumanMachineContract { system_commitments: ["always responds"], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`

func TestParseWellFormedContract(t *testing.T) {
	c, errs := parser.Parse(greetContract)
	require.Empty(t, errs)
	require.NotNil(t, c)
	require.Equal(t, "greet-service", c.Identity.StableID)
	require.Len(t, c.BehavioralSemantics.Operations, 1)
	require.Equal(t, "greet", c.BehavioralSemantics.Operations[0].Name)
}

func TestParseDuplicateSectionReportsExactlyOne(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "a", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "x", semantic_hash: "" }
  Identity { stable_id: "b", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "y", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: {}, invariants: [] }
  BehavioralSemantics { operations: [] }
  ExecutionConstraints { trigger_types: [], resource_limits: { max_memory_bytes: 1, computation_timeout_ms: 1, max_state_size_bytes: 1 }, external_permissions: [], sandbox_mode: full_isolation }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	_, errs := parser.Parse(src)

	var dupes []diag.Diagnostic
	for _, e := range errs {
		if e.Code == diag.CodeDuplicateSection {
			dupes = append(dupes, e)
		}
	}
	require.Len(t, dupes, 1)
}

func TestParseMissingSectionReportsEachOmission(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "a", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "x", semantic_hash: "" }
}`
	_, errs := parser.Parse(src)

	var missing []diag.Diagnostic
	for _, e := range errs {
		if e.Code == diag.CodeMissingSection {
			missing = append(missing, e)
		}
	}
	require.Len(t, missing, 5)
}

func TestParseUnknownSectionRecoversAndContinues(t *testing.T) {
	src := `Contract {
  Bogus { x: 1 }
  Identity { stable_id: "a", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "x", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: {}, invariants: [] }
  BehavioralSemantics { operations: [] }
  ExecutionConstraints { trigger_types: [], resource_limits: { max_memory_bytes: 1, computation_timeout_ms: 1, max_state_size_bytes: 1 }, external_permissions: [], sandbox_mode: full_isolation }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	c, errs := parser.Parse(src)
	require.NotEmpty(t, errs)
	require.Equal(t, "a", c.Identity.StableID)
}

func TestParseArrayAndMapTypeExpressions(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "a", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "x", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: {}, invariants: [] }
  BehavioralSemantics {
    operations: [
      { name: "op", trigger: manual, precondition: "true", parameters: { tags: Array<String>, scores: Map<String,Float> }, postcondition: "true", side_effects: [], idempotence: idempotent },
    ]
  }
  ExecutionConstraints { trigger_types: [], resource_limits: { max_memory_bytes: 1, computation_timeout_ms: 1, max_state_size_bytes: 1 }, external_permissions: [], sandbox_mode: full_isolation }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	c, errs := parser.Parse(src)
	require.Empty(t, errs)
	params := c.BehavioralSemantics.Operations[0].Parameters
	require.Equal(t, ast.TypeArray, params["tags"].Type.Kind)
	require.Equal(t, ast.PrimitiveString, params["tags"].Type.Element.Primitive)
	require.Equal(t, ast.TypeMap, params["scores"].Type.Kind)
	require.Equal(t, ast.PrimitiveFloat, params["scores"].Type.Value.Primitive)
}

func TestParseDuplicateExtensionsSectionErrors(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "a", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "x", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: {}, invariants: [] }
  BehavioralSemantics { operations: [] }
  ExecutionConstraints { trigger_types: [], resource_limits: { max_memory_bytes: 1, computation_timeout_ms: 1, max_state_size_bytes: 1 }, external_permissions: [], sandbox_mode: full_isolation }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
  Extensions { billing { plan: "gold" } }
  Extensions { shipping { region: "eu" } }
}`
	_, errs := parser.Parse(src)

	var dupes []diag.Diagnostic
	for _, e := range errs {
		if e.Code == diag.CodeDuplicateSection {
			dupes = append(dupes, e)
		}
	}
	require.Len(t, dupes, 1)
}

func TestParseSingleExtensionsSectionWithMultipleNamespacesIsFine(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "a", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "x", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: {}, invariants: [] }
  BehavioralSemantics { operations: [] }
  ExecutionConstraints { trigger_types: [], resource_limits: { max_memory_bytes: 1, computation_timeout_ms: 1, max_state_size_bytes: 1 }, external_permissions: [], sandbox_mode: full_isolation }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
  Extensions { billing { plan: "gold" } shipping { region: "eu" } }
}`
	c, errs := parser.Parse(src)
	require.Empty(t, errs)
	require.Len(t, c.Extensions, 2)
}

func TestParseMalformedTopLevelReturnsUnexpectedToken(t *testing.T) {
	_, errs := parser.Parse(`not a contract at all`)
	require.NotEmpty(t, errs)
	require.Equal(t, diag.CodeUnexpectedToken, errs[0].Code)
}
