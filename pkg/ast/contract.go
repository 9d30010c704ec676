package ast

import "github.com/icl-run/icl-core/pkg/token"

// SectionName identifies one of the seven top-level contract sections.
type SectionName string

const (
	SectionIdentity             SectionName = "Identity"
	SectionPurposeStatement     SectionName = "PurposeStatement"
	SectionDataSemantics        SectionName = "DataSemantics"
	SectionBehavioralSemantics  SectionName = "BehavioralSemantics"
	SectionExecutionConstraints SectionName = "ExecutionConstraints"
	SectionHumanMachineContract SectionName = "HumanMachineContract"
	SectionExtensions           SectionName = "Extensions"
)

// CanonicalSectionOrder is the fixed emission order for §4.3 rule 2.
var CanonicalSectionOrder = []SectionName{
	SectionIdentity,
	SectionPurposeStatement,
	SectionDataSemantics,
	SectionBehavioralSemantics,
	SectionExecutionConstraints,
	SectionHumanMachineContract,
	SectionExtensions,
}

// Contract is the root AST node: an ordered collection of top-level
// sections. Order is source order as parsed; SourceOrder is preserved
// alongside the typed fields so re-serializing a non-normalized AST is
// possible for diagnostics and `fmt`-style tooling.
type Contract struct {
	Span token.Span

	Identity             *Identity
	PurposeStatement     *PurposeStatement
	DataSemantics        *DataSemantics
	BehavioralSemantics  *BehavioralSemantics
	ExecutionConstraints *ExecutionConstraints
	HumanMachineContract *HumanMachineContract
	Extensions           []*ExtensionBlock

	// SourceOrder records the order sections appeared in source, by name,
	// including any that a caller may separately flag as duplicates.
	SourceOrder []SectionName
}

// Identity carries contract identity metadata.
type Identity struct {
	Span             token.Span
	StableID         string
	Version          int64
	CreatedTimestamp string
	Owner            string
	SemanticHash     string
	FieldSpans       map[string]token.Span
}

// PurposeStatement documents contract intent.
type PurposeStatement struct {
	Span            token.Span
	Narrative       string
	IntentSource    string
	ConfidenceLevel float64
	Domain          string // optional; "" means absent
	HasDomain       bool
	FieldSpans      map[string]token.Span
}

// StateField is one entry of DataSemantics.state: a name, its declared
// type, and an optional default literal carried on the TypeExpression.
type StateField struct {
	Name string
	Type *TypeExpression
	Span token.Span
}

// DataSemantics is the mapping from field name to typed state, plus
// invariant predicate strings.
type DataSemantics struct {
	Span token.Span

	// State indexes by name; StateOrder preserves source order (fields are
	// re-sorted alphabetically only during normalization, per §4.3 rule 3).
	State      map[string]*StateField
	StateOrder []string

	Invariants     []string
	InvariantSpans []token.Span
}

// Trigger names how an Operation may be invoked.
type Trigger string

const (
	TriggerManual     Trigger = "manual"
	TriggerTimeBased  Trigger = "time_based"
	TriggerEventBased Trigger = "event_based"
)

// Idempotence classifies whether repeated invocation of an Operation is
// safe to repeat with identical effect.
type Idempotence string

const (
	Idempotent    Idempotence = "idempotent"
	NonIdempotent Idempotence = "non_idempotent"
)

// OperationParam is one entry of an Operation's optional parameters map.
type OperationParam struct {
	Name string
	Type *TypeExpression
	Span token.Span
}

// Operation is one behavioral unit: a name, trigger, guard predicates,
// optional parameters, side effects, and idempotence classification.
type Operation struct {
	Span token.Span

	Name          string
	Trigger       Trigger
	Precondition  string
	Parameters    map[string]*OperationParam // optional
	ParamOrder    []string
	Postcondition string
	SideEffects   []string
	Idempotence   Idempotence
	Computation   string // optional; "" means absent
	HasComputation bool
	Schedule      string // optional; "" means absent
	HasSchedule   bool

	FieldSpans map[string]token.Span
}

// BehavioralSemantics is the ordered sequence of Operations.
type BehavioralSemantics struct {
	Span       token.Span
	Operations []*Operation
}

// ResourceLimits bounds executor resource consumption.
type ResourceLimits struct {
	Span                 token.Span
	MaxMemoryBytes       int64
	ComputationTimeoutMs int64
	MaxStateSizeBytes    int64
}

// SandboxMode names the declared execution restriction; the core executor
// performs no real external I/O regardless of the declared mode.
type SandboxMode string

const (
	SandboxFullIsolation SandboxMode = "full_isolation"
	SandboxRestricted    SandboxMode = "restricted"
	SandboxNone          SandboxMode = "none"
)

// ExecutionConstraints bounds what triggers, permissions, and resources a
// contract's operations may exercise.
type ExecutionConstraints struct {
	Span                token.Span
	TriggerTypes        []string
	ResourceLimits      *ResourceLimits
	ExternalPermissions []string
	SandboxMode         SandboxMode
}

// HumanMachineContract lists the four negotiated-obligation string lists.
type HumanMachineContract struct {
	Span              token.Span
	SystemCommitments []string
	SystemRefusals    []string
	UserObligations   []string
	UserEntitlements  []string
}

// ExtensionBlock is a namespaced opaque block: preserved, normalized, and
// hashed, but never interpreted by the core.
type ExtensionBlock struct {
	Span      token.Span
	Namespace string
	Body      *Value // ValueObject
}
