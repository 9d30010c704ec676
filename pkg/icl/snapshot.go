package icl

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/token"
)

// Snapshot is the stable JSON AST shape returned by `parse_contract` at the
// binding boundary (§6.1). It mirrors ast.Contract but with explicit JSON
// tags and plain-value field shapes so wasm/FFI callers never depend on Go
// struct layout.
type Snapshot struct {
	Identity             *IdentitySnapshot     `json:"identity"`
	PurposeStatement     *PurposeSnapshot      `json:"purpose_statement"`
	DataSemantics        *DataSemanticsSnapshot `json:"data_semantics"`
	BehavioralSemantics  *BehavioralSnapshot   `json:"behavioral_semantics"`
	ExecutionConstraints *ExecConstraintsSnapshot `json:"execution_constraints"`
	HumanMachineContract *HumanMachineSnapshot `json:"human_machine_contract"`
	Extensions           []ExtensionSnapshot   `json:"extensions"`
}

type IdentitySnapshot struct {
	StableID         string `json:"stable_id"`
	Version          int64  `json:"version"`
	CreatedTimestamp string `json:"created_timestamp"`
	Owner            string `json:"owner"`
	SemanticHash     string `json:"semantic_hash"`
}

type PurposeSnapshot struct {
	Narrative       string  `json:"narrative"`
	IntentSource    string  `json:"intent_source"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Domain          *string `json:"domain,omitempty"`
}

type StateFieldSnapshot struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type DataSemanticsSnapshot struct {
	State      []StateFieldSnapshot `json:"state"`
	Invariants []string             `json:"invariants"`
}

type OperationSnapshot struct {
	Name          string   `json:"name"`
	Trigger       string   `json:"trigger"`
	Precondition  string   `json:"precondition"`
	Postcondition string   `json:"postcondition"`
	Parameters    []string `json:"parameters,omitempty"`
	SideEffects   []string `json:"side_effects"`
	Idempotence   string   `json:"idempotence"`
	Computation   *string  `json:"computation,omitempty"`
	Schedule      *string  `json:"schedule,omitempty"`
}

type BehavioralSnapshot struct {
	Operations []OperationSnapshot `json:"operations"`
}

type ResourceLimitsSnapshot struct {
	MaxMemoryBytes       int64 `json:"max_memory_bytes"`
	ComputationTimeoutMs int64 `json:"computation_timeout_ms"`
	MaxStateSizeBytes    int64 `json:"max_state_size_bytes"`
}

type ExecConstraintsSnapshot struct {
	TriggerTypes        []string                `json:"trigger_types"`
	ResourceLimits      *ResourceLimitsSnapshot `json:"resource_limits"`
	ExternalPermissions []string                `json:"external_permissions"`
	SandboxMode         string                  `json:"sandbox_mode"`
}

type HumanMachineSnapshot struct {
	SystemCommitments []string `json:"system_commitments"`
	SystemRefusals    []string `json:"system_refusals"`
	UserObligations   []string `json:"user_obligations"`
	UserEntitlements  []string `json:"user_entitlements"`
}

type ExtensionSnapshot struct {
	Namespace string         `json:"namespace"`
	Body      map[string]any `json:"body"`
}

// BuildSnapshot converts an already-parsed Contract into its Snapshot form.
func BuildSnapshot(c *ast.Contract) *Snapshot {
	s := &Snapshot{}
	if c.Identity != nil {
		s.Identity = &IdentitySnapshot{
			StableID:         c.Identity.StableID,
			Version:          c.Identity.Version,
			CreatedTimestamp: c.Identity.CreatedTimestamp,
			Owner:            c.Identity.Owner,
			SemanticHash:     c.Identity.SemanticHash,
		}
	}
	if c.PurposeStatement != nil {
		ps := &PurposeSnapshot{
			Narrative:       c.PurposeStatement.Narrative,
			IntentSource:    c.PurposeStatement.IntentSource,
			ConfidenceLevel: c.PurposeStatement.ConfidenceLevel,
		}
		if c.PurposeStatement.HasDomain {
			d := c.PurposeStatement.Domain
			ps.Domain = &d
		}
		s.PurposeStatement = ps
	}
	if c.DataSemantics != nil {
		ds := &DataSemanticsSnapshot{Invariants: append([]string{}, c.DataSemantics.Invariants...)}
		names := append([]string{}, c.DataSemantics.StateOrder...)
		sort.Strings(names)
		for _, n := range names {
			f := c.DataSemantics.State[n]
			ds.State = append(ds.State, StateFieldSnapshot{Name: n, Type: f.Type.CanonicalName()})
		}
		s.DataSemantics = ds
	}
	if c.BehavioralSemantics != nil {
		bs := &BehavioralSnapshot{}
		for _, op := range c.BehavioralSemantics.Operations {
			os := OperationSnapshot{
				Name:          op.Name,
				Trigger:       string(op.Trigger),
				Precondition:  op.Precondition,
				Postcondition: op.Postcondition,
				SideEffects:   append([]string{}, op.SideEffects...),
				Idempotence:   string(op.Idempotence),
			}
			for _, p := range op.ParamOrder {
				os.Parameters = append(os.Parameters, p+": "+op.Parameters[p].Type.CanonicalName())
			}
			if op.HasComputation {
				comp := op.Computation
				os.Computation = &comp
			}
			if op.HasSchedule {
				sched := op.Schedule
				os.Schedule = &sched
			}
			bs.Operations = append(bs.Operations, os)
		}
		s.BehavioralSemantics = bs
	}
	if c.ExecutionConstraints != nil {
		ec := c.ExecutionConstraints
		snap := &ExecConstraintsSnapshot{
			TriggerTypes:        append([]string{}, ec.TriggerTypes...),
			ExternalPermissions: append([]string{}, ec.ExternalPermissions...),
			SandboxMode:         string(ec.SandboxMode),
		}
		if ec.ResourceLimits != nil {
			snap.ResourceLimits = &ResourceLimitsSnapshot{
				MaxMemoryBytes:       ec.ResourceLimits.MaxMemoryBytes,
				ComputationTimeoutMs: ec.ResourceLimits.ComputationTimeoutMs,
				MaxStateSizeBytes:    ec.ResourceLimits.MaxStateSizeBytes,
			}
		}
		s.ExecutionConstraints = snap
	}
	if c.HumanMachineContract != nil {
		hc := c.HumanMachineContract
		s.HumanMachineContract = &HumanMachineSnapshot{
			SystemCommitments: append([]string{}, hc.SystemCommitments...),
			SystemRefusals:    append([]string{}, hc.SystemRefusals...),
			UserObligations:   append([]string{}, hc.UserObligations...),
			UserEntitlements:  append([]string{}, hc.UserEntitlements...),
		}
	}
	for _, ext := range c.Extensions {
		s.Extensions = append(s.Extensions, ExtensionSnapshot{
			Namespace: ext.Namespace,
			Body:      valueToPlain(ext.Body),
		})
	}
	return s
}

func valueToPlain(v *ast.Value) map[string]any {
	if v == nil || v.Kind != ast.ValueObject {
		return map[string]any{}
	}
	out := make(map[string]any, len(v.Object))
	for _, k := range v.Order {
		out[k] = valueNodeToPlain(v.Object[k])
	}
	return out
}

func valueNodeToPlain(v *ast.Value) any {
	switch v.Kind {
	case ast.ValueLiteral:
		return literalToPlain(v.Literal)
	case ast.ValueArray:
		items := make([]any, 0, len(v.Array))
		for _, e := range v.Array {
			items = append(items, valueNodeToPlain(e))
		}
		return items
	case ast.ValueObject:
		return valueToPlain(v)
	default:
		return nil
	}
}

func literalToPlain(l *ast.Literal) any {
	if l == nil {
		return nil
	}
	switch l.Kind {
	case token.IntLit:
		return l.Int
	case token.FloatLit:
		return l.Float
	case token.BoolLit:
		return l.Bool
	default:
		return l.Text
	}
}

// ParseSnapshot parses text and returns its Snapshot, or a *ParseError.
func ParseSnapshot(text string) (*Snapshot, error) {
	c, err := parseOrError(text)
	if err != nil {
		return nil, err
	}
	return BuildSnapshot(c), nil
}

// MarshalSnapshot renders a Snapshot as its stable JSON AST text.
func MarshalSnapshot(s *Snapshot) (string, error) {
	out, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("icl: marshal snapshot: %w", err)
	}
	return string(out), nil
}
