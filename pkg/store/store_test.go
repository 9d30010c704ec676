package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icl-run/icl-core/pkg/store"
)

func TestMemoryStoreSaveGetList(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	run := &store.Run{StableID: "greet-service", RequestJSON: `{}`, ResultJSON: `{}`, Success: true}
	require.NoError(t, s.Save(ctx, run))
	require.NotEmpty(t, run.ID)

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.StableID, got.StableID)

	_, err = s.Get(ctx, "does-not-exist")
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.List(ctx, "greet-service", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSQLiteStoreSaveGetList(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	run := &store.Run{ID: "run-1", StableID: "greet-service", RequestJSON: `{}`, ResultJSON: `{}`, Success: true}
	require.NoError(t, s.Save(ctx, run))

	got, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, "greet-service", got.StableID)
	require.True(t, got.Success)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.List(ctx, "", 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAuditedExecutorPersistsRunAfterExecute(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	ae := store.NewAuditedExecutor(mem)

	contract := helloWorldFixture(t)

	out, err := ae.Execute(ctx, "greet-service", contract, `{"operation":"greet","inputs":{"name":"World"}}`)
	require.NoError(t, err)
	require.Contains(t, out, `"success":true`)

	runs, err := mem.List(ctx, "greet-service", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.True(t, runs[0].Success)
	require.Equal(t, out, runs[0].ResultJSON)
}

func TestAuditedExecutorPersistsRunEvenOnExecuteFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	ae := store.NewAuditedExecutor(mem)

	_, err := ae.Execute(ctx, "greet-service", "not a contract", `{"operation":"greet","inputs":{}}`)
	require.Error(t, err)

	runs, err2 := mem.List(ctx, "greet-service", 10)
	require.NoError(t, err2)
	require.Len(t, runs, 1)
	require.False(t, runs[0].Success)
}

func helloWorldFixture(t *testing.T) string {
	t.Helper()
	return `Contract {
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
}
