package executor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icl-run/icl-core/pkg/parser"
)

const greetContract = `Contract {
  Identity { stable_id: "greet-service", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "team-hello", semantic_hash: "" }
  PurposeStatement { narrative: "Greets a caller.", intent_source: "hello world test", confidence_level: 1.0 }
  DataSemantics {
    state: { greeting_count: Integer = 0 },
    invariants: ["greeting_count >= 0"]
  }
  BehavioralSemantics {
    operations: [
      {
        name: "greet",
        trigger: manual,
        precondition: "true",
        parameters: { name: String },
        postcondition: "true",
        side_effects: ["set:greeting_count=greeting_count+1"],
        idempotence: non_idempotent,
      },
    ]
  }
  ExecutionConstraints {
    trigger_types: ["manual"],
    resource_limits: { max_memory_bytes: 1048576, computation_timeout_ms: 1000, max_state_size_bytes: 4096 },
    external_permissions: [],
    sandbox_mode: full_isolation
  }
  HumanMachineContract {
    system_commitments: ["always responds"],
    system_refusals: [],
    user_obligations: [],
    user_entitlements: []
  }
}`

func TestExecuteSuccessWithProvenance(t *testing.T) {
	c, errs := parser.Parse(greetContract)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"greet","inputs":{"name":"ada"}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Success)
	require.Nil(t, res.Error)
	require.NotEmpty(t, res.Provenance)
	require.EqualValues(t, 1, res.FinalState["greeting_count"])
}

func TestExecuteUnknownOperation(t *testing.T) {
	c, errs := parser.Parse(greetContract)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"nope","inputs":{}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	require.Contains(t, *res.Error, string(ErrUnknownOperation))
}

func TestExecuteMissingParameterFailsPrecondition(t *testing.T) {
	c, errs := parser.Parse(greetContract)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"greet","inputs":{}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	require.Contains(t, *res.Error, string(ErrPreconditionFailed))
}

func TestExecuteExtraParameterFailsPrecondition(t *testing.T) {
	c, errs := parser.Parse(greetContract)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"greet","inputs":{"name":"ada","extra":true}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.NotNil(t, res.Error)
}

func TestExecutePostconditionFailureRevertsState(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "s", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "o", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: { x: Integer = 0 }, invariants: [] }
  BehavioralSemantics {
    operations: [
      { name: "bump", trigger: manual, precondition: "true", postcondition: "x < 0", side_effects: ["set:x=x+1"], idempotence: idempotent },
    ]
  }
  ExecutionConstraints {
    trigger_types: [], resource_limits: { max_memory_bytes: 1048576, computation_timeout_ms: 1000, max_state_size_bytes: 4096 }, external_permissions: [], sandbox_mode: full_isolation
  }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	c, errs := parser.Parse(src)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"bump","inputs":{}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.Contains(t, *res.Error, string(ErrPostconditionFailed))
	require.EqualValues(t, 0, res.FinalState["x"])
}

func TestExecuteInvariantViolationRevertsState(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "s", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "o", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: { x: Integer = 0 }, invariants: ["x < 1"] }
  BehavioralSemantics {
    operations: [
      { name: "bump", trigger: manual, precondition: "true", postcondition: "true", side_effects: ["set:x=x+5"], idempotence: idempotent },
    ]
  }
  ExecutionConstraints {
    trigger_types: [], resource_limits: { max_memory_bytes: 1048576, computation_timeout_ms: 1000, max_state_size_bytes: 4096 }, external_permissions: [], sandbox_mode: full_isolation
  }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	c, errs := parser.Parse(src)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"bump","inputs":{}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.Contains(t, *res.Error, string(ErrInvariantViolation))
	require.EqualValues(t, 0, res.FinalState["x"])
}

func TestExecuteResourceExceededRevertsState(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "s", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "o", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: { blob: String = "" }, invariants: [] }
  BehavioralSemantics {
    operations: [
      { name: "grow", trigger: manual, precondition: "true", postcondition: "true", parameters: { text: String }, side_effects: ["set:blob=text"], idempotence: idempotent },
    ]
  }
  ExecutionConstraints {
    trigger_types: [], resource_limits: { max_memory_bytes: 16, computation_timeout_ms: 1000, max_state_size_bytes: 16 }, external_permissions: [], sandbox_mode: full_isolation
  }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	c, errs := parser.Parse(src)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"grow","inputs":{"text":"this text is far too long for the limit"}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.Contains(t, *res.Error, string(ErrResourceExceeded))
	require.EqualValues(t, "", res.FinalState["blob"])
}

func TestExecuteArithmeticErrorOnDivisionByZero(t *testing.T) {
	src := `Contract {
  Identity { stable_id: "s", version: 1, created_timestamp: 2024-01-15T09:30:00Z, owner: "o", semantic_hash: "" }
  PurposeStatement { narrative: "n", intent_source: "s", confidence_level: 1.0 }
  DataSemantics { state: { x: Integer = 0, divisor: Integer = 0 }, invariants: [] }
  BehavioralSemantics {
    operations: [
      { name: "divide", trigger: manual, precondition: "true", postcondition: "true", side_effects: ["set:x=10/divisor"], idempotence: idempotent },
    ]
  }
  ExecutionConstraints {
    trigger_types: [], resource_limits: { max_memory_bytes: 1048576, computation_timeout_ms: 1000, max_state_size_bytes: 4096 }, external_permissions: [], sandbox_mode: full_isolation
  }
  HumanMachineContract { system_commitments: [], system_refusals: [], user_obligations: [], user_entitlements: [] }
}`
	c, errs := parser.Parse(src)
	require.Empty(t, errs)

	out, err := Execute(c, `{"operation":"divide","inputs":{}}`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.Contains(t, *res.Error, string(ErrArithmeticError))
}

func TestExecuteSequentialRequestsRevertOnlyFailingOne(t *testing.T) {
	c, errs := parser.Parse(greetContract)
	require.Empty(t, errs)

	out, err := Execute(c, `[
		{"operation":"greet","inputs":{"name":"ada"}},
		{"operation":"greet","inputs":{"name":"grace"}},
		{"operation":"nope","inputs":{}}
	]`)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Success)
	require.EqualValues(t, 2, res.FinalState["greeting_count"])
}
