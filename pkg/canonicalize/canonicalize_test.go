package canonicalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/parser"
)

const sampleContract = `Contract {
  Identity {
    stable_id: "greet-service",
    version: 1,
    created_timestamp: 2024-01-15T09:30:00Z,
    owner: "team-hello",
    semantic_hash: "",
  }
  PurposeStatement {
    narrative: "Greets a caller by name.",
    intent_source: "hello world test",
    confidence_level: 1.0,
  }
  DataSemantics {
    state: {
      greeting_count: Integer = 0,
    },
    invariants: ["greeting_count >= 0"],
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
    ],
  }
  ExecutionConstraints {
    trigger_types: ["manual"],
    resource_limits: { max_memory_bytes: 1048576, computation_timeout_ms: 1000, max_state_size_bytes: 4096 },
    external_permissions: [],
    sandbox_mode: full_isolation,
  }
  HumanMachineContract {
    system_commitments: ["always responds"],
    system_refusals: [],
    user_obligations: [],
    user_entitlements: [],
  }
}`

func mustParse(t *testing.T) *ast.Contract {
	t.Helper()
	c, errs := parser.Parse(sampleContract)
	require.Empty(t, errs)
	require.NotNil(t, c)
	return c
}

func TestNormalizeIsIdempotent(t *testing.T) {
	c := mustParse(t)
	n1 := Normalize(c)
	n2 := Normalize(n1)
	require.Equal(t, RenderCanonical(n1, false), RenderCanonical(n2, false))
}

func TestSemanticHashStableAcrossNormalization(t *testing.T) {
	c := mustParse(t)
	n := Normalize(c)
	h1 := SemanticHash(n)
	h2 := SemanticHash(Normalize(n))
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}

func TestCanonicalTextReparses(t *testing.T) {
	c := mustParse(t)
	n := Normalize(c)
	text := RenderCanonical(n, false)
	reparsed, errs := parser.Parse(text)
	require.Empty(t, errs)
	require.Equal(t, n.Identity.StableID, reparsed.Identity.StableID)
}

func TestSemanticHashBlanksDeclaredHashOnly(t *testing.T) {
	c := mustParse(t)
	c.Identity.SemanticHash = "user-declared-value"
	n := Normalize(c)
	require.Equal(t, "user-declared-value", n.Identity.SemanticHash)
	text := RenderCanonical(n, false)
	require.Contains(t, text, "user-declared-value")
	hashedText := RenderCanonical(n, true)
	require.NotContains(t, hashedText, "user-declared-value")
}

// FuzzParse asserts that no byte sequence, however malformed, makes the
// parser panic: it must always return either a Contract or a non-empty
// diagnostic list, never both nil and empty.
func FuzzParse(f *testing.F) {
	f.Add([]byte(sampleContract))
	f.Add([]byte(`Contract {`))
	f.Add([]byte(``))
	f.Add([]byte(`Contract { Extensions { billing { plan: "gold" } } Extensions { shipping {} } }`))
	f.Add([]byte("Contract {\x00\xff garbage"))

	f.Fuzz(func(t *testing.T, data []byte) {
		c, errs := parser.Parse(string(data))
		if c == nil && len(errs) == 0 {
			t.Errorf("Parse(%q) returned neither a Contract nor diagnostics", data)
		}
	})
}

// FuzzNormalizeRoundtrip asserts that any contract that parses cleanly
// survives Normalize and RenderCanonical without panicking, and that its
// canonical text always reparses cleanly (§4.3's round-trip invariant).
func FuzzNormalizeRoundtrip(f *testing.F) {
	f.Add([]byte(sampleContract))

	f.Fuzz(func(t *testing.T, data []byte) {
		c, errs := parser.Parse(string(data))
		if len(errs) > 0 || c == nil {
			t.Skip("input does not parse cleanly")
			return
		}

		n := Normalize(c)
		text := RenderCanonical(n, false)

		reparsed, reErrs := parser.Parse(text)
		if len(reErrs) > 0 || reparsed == nil {
			t.Fatalf("canonical text failed to reparse: %v\ntext:\n%s", reErrs, text)
		}

		again := RenderCanonical(Normalize(reparsed), false)
		if text != again {
			t.Errorf("Normalize/RenderCanonical not idempotent:\nfirst:\n%s\nsecond:\n%s", text, again)
		}
	})
}
