package icl

import (
	"fmt"

	"github.com/icl-run/icl-core/pkg/canonicalize"
)

// FieldDiff is one field-level difference between two normalized contracts.
type FieldDiff struct {
	Path string `json:"path"`
	A    string `json:"a"`
	B    string `json:"b"`
}

// Diff compares two contract sources after normalization, field by field
// over their snapshots: identity stable_id, version and owner; the purpose
// narrative, intent_source and confidence_level; state and invariants;
// operations; the execution constraints; and the human-machine lists.
// Identity created_timestamp and semantic_hash, the purpose domain and
// Extensions are not compared. It is a secondary entry point layered on the
// five primary ones (used by the `diff` command); it does not alter their
// behavior.
func Diff(a, b string) ([]FieldDiff, error) {
	ca, err := parseOrError(a)
	if err != nil {
		return nil, fmt.Errorf("icl: diff: contract a: %w", err)
	}
	cb, err := parseOrError(b)
	if err != nil {
		return nil, fmt.Errorf("icl: diff: contract b: %w", err)
	}
	sa := BuildSnapshot(canonicalize.Normalize(ca))
	sb := BuildSnapshot(canonicalize.Normalize(cb))

	var diffs []FieldDiff
	diffs = append(diffs, diffIdentity(sa.Identity, sb.Identity)...)
	diffs = append(diffs, diffPurpose(sa.PurposeStatement, sb.PurposeStatement)...)
	diffs = append(diffs, diffDataSemantics(sa.DataSemantics, sb.DataSemantics)...)
	diffs = append(diffs, diffBehavioral(sa.BehavioralSemantics, sb.BehavioralSemantics)...)
	diffs = append(diffs, diffExecutionConstraints(sa.ExecutionConstraints, sb.ExecutionConstraints)...)
	diffs = append(diffs, diffHumanMachine(sa.HumanMachineContract, sb.HumanMachineContract)...)
	return diffs, nil
}

func addIfDiff(diffs []FieldDiff, path, a, b string) []FieldDiff {
	if a == b {
		return diffs
	}
	return append(diffs, FieldDiff{Path: path, A: a, B: b})
}

func diffIdentity(a, b *IdentitySnapshot) []FieldDiff {
	var d []FieldDiff
	az, bz := unwrapIdentity(a), unwrapIdentity(b)
	d = addIfDiff(d, "identity.stable_id", az.StableID, bz.StableID)
	d = addIfDiff(d, "identity.version", fmt.Sprint(az.Version), fmt.Sprint(bz.Version))
	d = addIfDiff(d, "identity.owner", az.Owner, bz.Owner)
	return d
}

func unwrapIdentity(s *IdentitySnapshot) IdentitySnapshot {
	if s == nil {
		return IdentitySnapshot{}
	}
	return *s
}

func diffPurpose(a, b *PurposeSnapshot) []FieldDiff {
	var d []FieldDiff
	az, bz := unwrapPurpose(a), unwrapPurpose(b)
	d = addIfDiff(d, "purpose_statement.narrative", az.Narrative, bz.Narrative)
	d = addIfDiff(d, "purpose_statement.intent_source", az.IntentSource, bz.IntentSource)
	d = addIfDiff(d, "purpose_statement.confidence_level", fmt.Sprint(az.ConfidenceLevel), fmt.Sprint(bz.ConfidenceLevel))
	return d
}

func unwrapPurpose(s *PurposeSnapshot) PurposeSnapshot {
	if s == nil {
		return PurposeSnapshot{}
	}
	return *s
}

func diffDataSemantics(a, b *DataSemanticsSnapshot) []FieldDiff {
	var d []FieldDiff
	az, bz := unwrapDataSemantics(a), unwrapDataSemantics(b)
	d = addIfDiff(d, "data_semantics.state", fmt.Sprint(az.State), fmt.Sprint(bz.State))
	d = addIfDiff(d, "data_semantics.invariants", fmt.Sprint(az.Invariants), fmt.Sprint(bz.Invariants))
	return d
}

func unwrapDataSemantics(s *DataSemanticsSnapshot) DataSemanticsSnapshot {
	if s == nil {
		return DataSemanticsSnapshot{}
	}
	return *s
}

func diffBehavioral(a, b *BehavioralSnapshot) []FieldDiff {
	var d []FieldDiff
	az, bz := unwrapBehavioral(a), unwrapBehavioral(b)
	d = addIfDiff(d, "behavioral_semantics.operations", fmt.Sprint(az.Operations), fmt.Sprint(bz.Operations))
	return d
}

func unwrapBehavioral(s *BehavioralSnapshot) BehavioralSnapshot {
	if s == nil {
		return BehavioralSnapshot{}
	}
	return *s
}

func diffExecutionConstraints(a, b *ExecConstraintsSnapshot) []FieldDiff {
	var d []FieldDiff
	az, bz := unwrapExec(a), unwrapExec(b)
	d = addIfDiff(d, "execution_constraints.trigger_types", fmt.Sprint(az.TriggerTypes), fmt.Sprint(bz.TriggerTypes))
	d = addIfDiff(d, "execution_constraints.external_permissions", fmt.Sprint(az.ExternalPermissions), fmt.Sprint(bz.ExternalPermissions))
	d = addIfDiff(d, "execution_constraints.sandbox_mode", az.SandboxMode, bz.SandboxMode)
	d = addIfDiff(d, "execution_constraints.resource_limits", fmt.Sprint(az.ResourceLimits), fmt.Sprint(bz.ResourceLimits))
	return d
}

func unwrapExec(s *ExecConstraintsSnapshot) ExecConstraintsSnapshot {
	if s == nil {
		return ExecConstraintsSnapshot{}
	}
	return *s
}

func diffHumanMachine(a, b *HumanMachineSnapshot) []FieldDiff {
	var d []FieldDiff
	az, bz := unwrapHumanMachine(a), unwrapHumanMachine(b)
	d = addIfDiff(d, "human_machine_contract.system_commitments", fmt.Sprint(az.SystemCommitments), fmt.Sprint(bz.SystemCommitments))
	d = addIfDiff(d, "human_machine_contract.system_refusals", fmt.Sprint(az.SystemRefusals), fmt.Sprint(bz.SystemRefusals))
	d = addIfDiff(d, "human_machine_contract.user_obligations", fmt.Sprint(az.UserObligations), fmt.Sprint(bz.UserObligations))
	d = addIfDiff(d, "human_machine_contract.user_entitlements", fmt.Sprint(az.UserEntitlements), fmt.Sprint(bz.UserEntitlements))
	return d
}

func unwrapHumanMachine(s *HumanMachineSnapshot) HumanMachineSnapshot {
	if s == nil {
		return HumanMachineSnapshot{}
	}
	return *s
}
