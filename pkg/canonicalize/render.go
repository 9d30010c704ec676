package canonicalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/token"
)

// renderer accumulates canonical text: two-space indent per level, one
// space after ':', a trailing comma and newline after every field and
// every list/object closing brace (§4.3 rule 5). Contract sections and
// extension namespaces are written as `Name {...}` without ':' or comma.
type renderer struct {
	sb     strings.Builder
	indent int
}

func (r *renderer) writeIndent() {
	r.sb.WriteString(strings.Repeat("  ", r.indent))
}

func (r *renderer) field(name string, write func()) {
	r.writeIndent()
	r.sb.WriteString(name)
	r.sb.WriteString(": ")
	write()
	r.sb.WriteString(",\n")
}

// section writes a block header the way the parser reads sections and
// extension namespaces: `Name {...}` with no ':' and no trailing comma.
func (r *renderer) section(name string, write func()) {
	r.writeIndent()
	r.sb.WriteString(name)
	r.sb.WriteString(" ")
	write()
	r.sb.WriteString("\n")
}

func (r *renderer) literalString(s string) {
	r.sb.WriteString(quoteString(s))
}

func (r *renderer) literalIdent(s string) {
	r.sb.WriteString(s)
}

func (r *renderer) literalInt(v int64) {
	r.sb.WriteString(strconv.FormatInt(v, 10))
}

func (r *renderer) literalFloat(v float64) {
	r.sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}

func (r *renderer) literalBool(v bool) {
	if v {
		r.sb.WriteString("true")
	} else {
		r.sb.WriteString("false")
	}
}

func (r *renderer) stringList(name string, items []string) {
	r.field(name, func() {
		r.sb.WriteString("[\n")
		r.indent++
		for _, s := range items {
			r.writeIndent()
			r.sb.WriteString(quoteString(s))
			r.sb.WriteString(",\n")
		}
		r.indent--
		r.writeIndent()
		r.sb.WriteString("]")
	})
}

// quoteString applies the canonical minimal escape set: \" \\ \n \r \t; all
// other valid UTF-8 printables are left as-is (§4.3 rule 8).
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RenderCanonical renders c as canonical ICL source text. c must already be
// the output of Normalize. When blankSemanticHash is true, Identity's
// semantic_hash field is emitted as "" — used only to produce the text fed
// to SHA-256 in SemanticHash, never for the text returned to callers.
func RenderCanonical(c *ast.Contract, blankSemanticHash bool) string {
	r := &renderer{}
	r.sb.WriteString("Contract {\n")
	r.indent++

	if c.Identity != nil {
		r.section("Identity", func() { r.writeIdentity(c.Identity, blankSemanticHash) })
	}
	if c.PurposeStatement != nil {
		r.section("PurposeStatement", func() { r.writePurposeStatement(c.PurposeStatement) })
	}
	if c.DataSemantics != nil {
		r.section("DataSemantics", func() { r.writeDataSemantics(c.DataSemantics) })
	}
	if c.BehavioralSemantics != nil {
		r.section("BehavioralSemantics", func() { r.writeBehavioralSemantics(c.BehavioralSemantics) })
	}
	if c.ExecutionConstraints != nil {
		r.section("ExecutionConstraints", func() { r.writeExecutionConstraints(c.ExecutionConstraints) })
	}
	if c.HumanMachineContract != nil {
		r.section("HumanMachineContract", func() { r.writeHumanMachineContract(c.HumanMachineContract) })
	}
	if len(c.Extensions) > 0 {
		r.section("Extensions", func() { r.writeExtensions(c.Extensions) })
	}

	r.indent--
	r.sb.WriteString("}\n")
	return r.sb.String()
}

func (r *renderer) writeIdentity(id *ast.Identity, blankHash bool) {
	r.sb.WriteString("{\n")
	r.indent++
	r.field("created_timestamp", func() { r.literalIdent(id.CreatedTimestamp) })
	r.field("owner", func() { r.sb.WriteString(quoteString(id.Owner)) })
	r.field("semantic_hash", func() {
		if blankHash {
			r.sb.WriteString(quoteString(""))
		} else {
			r.sb.WriteString(quoteString(id.SemanticHash))
		}
	})
	r.field("stable_id", func() { r.sb.WriteString(quoteString(id.StableID)) })
	r.field("version", func() { r.literalInt(id.Version) })
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writePurposeStatement(ps *ast.PurposeStatement) {
	r.sb.WriteString("{\n")
	r.indent++
	r.field("confidence_level", func() { r.literalFloat(ps.ConfidenceLevel) })
	if ps.HasDomain {
		r.field("domain", func() { r.sb.WriteString(quoteString(ps.Domain)) })
	}
	r.field("intent_source", func() { r.sb.WriteString(quoteString(ps.IntentSource)) })
	r.field("narrative", func() { r.sb.WriteString(quoteString(ps.Narrative)) })
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeDataSemantics(ds *ast.DataSemantics) {
	r.sb.WriteString("{\n")
	r.indent++
	r.stringList("invariants", ds.Invariants)
	r.field("state", func() {
		r.sb.WriteString("{\n")
		r.indent++
		names := append([]string{}, ds.StateOrder...)
		for _, name := range names {
			f := ds.State[name]
			r.field(name, func() { r.writeTypeExpression(f.Type) })
		}
		r.indent--
		r.writeIndent()
		r.sb.WriteString("}")
	})
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeTypeExpression(t *ast.TypeExpression) {
	switch t.Kind {
	case ast.TypePrimitive:
		r.sb.WriteString(string(t.Primitive))
	case ast.TypeEnum:
		r.sb.WriteString("Enum[")
		r.sb.WriteString(strings.Join(t.EnumVariants, ","))
		r.sb.WriteString("]")
	case ast.TypeArray:
		r.sb.WriteString("Array<")
		r.writeTypeExpression(t.Element)
		r.sb.WriteString(">")
	case ast.TypeMap:
		r.sb.WriteString("Map<")
		r.writeTypeExpression(t.Key)
		r.sb.WriteString(",")
		r.writeTypeExpression(t.Value)
		r.sb.WriteString(">")
	case ast.TypeObject:
		r.sb.WriteString("{\n")
		r.indent++
		for _, name := range t.ObjectOrder {
			f := t.ObjectFields[name]
			r.field(name, func() { r.writeTypeExpression(f) })
		}
		r.indent--
		r.writeIndent()
		r.sb.WriteString("}")
	}
	if t.Default != nil {
		r.sb.WriteString(" = ")
		r.writeLiteral(t.Default)
	}
}

func (r *renderer) writeLiteral(l *ast.Literal) {
	switch l.Kind {
	case token.StringLit:
		r.sb.WriteString(quoteString(l.Text))
	case token.IntLit:
		r.literalInt(l.Int)
	case token.FloatLit:
		r.literalFloat(l.Float)
	case token.BoolLit:
		r.literalBool(l.Bool)
	case token.TimestampLit, token.UuidLit, token.Identifier:
		r.literalIdent(l.Text)
	default:
		r.sb.WriteString(fmt.Sprintf("%q", l.Text))
	}
}

func (r *renderer) writeBehavioralSemantics(bs *ast.BehavioralSemantics) {
	r.sb.WriteString("{\n")
	r.indent++
	r.field("operations", func() {
		r.sb.WriteString("[\n")
		r.indent++
		for _, op := range bs.Operations {
			r.writeIndent()
			r.writeOperation(op)
			r.sb.WriteString(",\n")
		}
		r.indent--
		r.writeIndent()
		r.sb.WriteString("]")
	})
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeOperation(op *ast.Operation) {
	r.sb.WriteString("{\n")
	r.indent++
	if op.HasComputation {
		r.field("computation", func() { r.sb.WriteString(quoteString(op.Computation)) })
	}
	r.field("idempotence", func() { r.literalIdent(string(op.Idempotence)) })
	r.field("name", func() { r.sb.WriteString(quoteString(op.Name)) })
	if op.Parameters != nil {
		r.field("parameters", func() {
			r.sb.WriteString("{\n")
			r.indent++
			for _, name := range op.ParamOrder {
				pm := op.Parameters[name]
				r.field(name, func() { r.writeTypeExpression(pm.Type) })
			}
			r.indent--
			r.writeIndent()
			r.sb.WriteString("}")
		})
	}
	r.field("postcondition", func() { r.sb.WriteString(quoteString(op.Postcondition)) })
	r.field("precondition", func() { r.sb.WriteString(quoteString(op.Precondition)) })
	if op.HasSchedule {
		r.field("schedule", func() { r.sb.WriteString(quoteString(op.Schedule)) })
	}
	r.stringList("side_effects", op.SideEffects)
	r.field("trigger", func() { r.literalIdent(string(op.Trigger)) })
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeExecutionConstraints(ec *ast.ExecutionConstraints) {
	r.sb.WriteString("{\n")
	r.indent++
	r.stringList("external_permissions", ec.ExternalPermissions)
	if ec.ResourceLimits != nil {
		rl := ec.ResourceLimits
		r.field("resource_limits", func() {
			r.sb.WriteString("{\n")
			r.indent++
			r.field("computation_timeout_ms", func() { r.literalInt(rl.ComputationTimeoutMs) })
			r.field("max_memory_bytes", func() { r.literalInt(rl.MaxMemoryBytes) })
			r.field("max_state_size_bytes", func() { r.literalInt(rl.MaxStateSizeBytes) })
			r.indent--
			r.writeIndent()
			r.sb.WriteString("}")
		})
	}
	r.field("sandbox_mode", func() { r.literalIdent(string(ec.SandboxMode)) })
	r.stringList("trigger_types", ec.TriggerTypes)
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeHumanMachineContract(hc *ast.HumanMachineContract) {
	r.sb.WriteString("{\n")
	r.indent++
	r.stringList("system_commitments", hc.SystemCommitments)
	r.stringList("system_refusals", hc.SystemRefusals)
	r.stringList("user_entitlements", hc.UserEntitlements)
	r.stringList("user_obligations", hc.UserObligations)
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeExtensions(exts []*ast.ExtensionBlock) {
	r.sb.WriteString("{\n")
	r.indent++
	for _, e := range exts {
		r.section(e.Namespace, func() { r.writeValue(e.Body) })
	}
	r.indent--
	r.writeIndent()
	r.sb.WriteString("}")
}

func (r *renderer) writeValue(v *ast.Value) {
	if v == nil {
		r.sb.WriteString("null")
		return
	}
	switch v.Kind {
	case ast.ValueLiteral:
		r.writeLiteral(v.Literal)
	case ast.ValueType:
		r.writeTypeExpression(v.Type)
	case ast.ValueArray:
		r.sb.WriteString("[\n")
		r.indent++
		for _, item := range v.Array {
			r.writeIndent()
			r.writeValue(item)
			r.sb.WriteString(",\n")
		}
		r.indent--
		r.writeIndent()
		r.sb.WriteString("]")
	case ast.ValueObject:
		r.sb.WriteString("{\n")
		r.indent++
		for _, name := range v.Order {
			child := v.Object[name]
			r.field(name, func() { r.writeValue(child) })
		}
		r.indent--
		r.writeIndent()
		r.sb.WriteString("}")
	}
}
