package parser

import (
	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/token"
)

func (p *Parser) parseIdentity(span token.Span) *ast.Identity {
	obj := p.parseObjectValue()
	id := &ast.Identity{Span: span, FieldSpans: map[string]token.Span{}}
	id.StableID = p.stringField(obj, span, "Identity", "stable_id", true)
	if v, ok := field(obj, "version"); ok {
		if n, ok := p.asInt(v); ok {
			id.Version = n
		} else {
			p.addErr(diag.CodeMalformedField, v.Span, "Identity.version must be an integer")
		}
	} else {
		p.addErr(diag.CodeMalformedField, span, "Identity is missing required field version")
	}
	id.CreatedTimestamp = p.stringField(obj, span, "Identity", "created_timestamp", true)
	id.Owner = p.stringField(obj, span, "Identity", "owner", true)
	id.SemanticHash = p.stringField(obj, span, "Identity", "semantic_hash", false)
	for _, name := range []string{"stable_id", "version", "created_timestamp", "owner", "semantic_hash"} {
		if v, ok := field(obj, name); ok {
			id.FieldSpans[name] = v.Span
		}
	}
	return id
}

func (p *Parser) parsePurposeStatement(span token.Span) *ast.PurposeStatement {
	obj := p.parseObjectValue()
	ps := &ast.PurposeStatement{Span: span, FieldSpans: map[string]token.Span{}}
	ps.Narrative = p.stringField(obj, span, "PurposeStatement", "narrative", true)
	ps.IntentSource = p.stringField(obj, span, "PurposeStatement", "intent_source", true)
	if v, ok := field(obj, "confidence_level"); ok {
		if f, ok := p.asFloat(v); ok {
			ps.ConfidenceLevel = f
		} else {
			p.addErr(diag.CodeMalformedField, v.Span, "PurposeStatement.confidence_level must be a float")
		}
	} else {
		p.addErr(diag.CodeMalformedField, span, "PurposeStatement is missing required field confidence_level")
	}
	if v, ok := field(obj, "domain"); ok {
		ps.HasDomain = true
		if s, ok := p.asString(v); ok {
			ps.Domain = s
		}
	}
	for _, name := range []string{"narrative", "intent_source", "confidence_level", "domain"} {
		if v, ok := field(obj, name); ok {
			ps.FieldSpans[name] = v.Span
		}
	}
	return ps
}

func (p *Parser) parseDataSemantics(span token.Span) *ast.DataSemantics {
	if _, ok := p.expect(token.LBrace); !ok {
		return &ast.DataSemantics{Span: span, State: map[string]*ast.StateField{}}
	}
	ds := &ast.DataSemantics{Span: span, State: map[string]*ast.StateField{}}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected 'state' or 'invariants'")
			p.syncToCommaOrClose()
			continue
		}
		name := p.advance().Text
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		switch name {
		case "state":
			p.parseStateBlock(ds)
		case "invariants":
			p.parseInvariantsList(ds)
		default:
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "unknown DataSemantics field "+name)
			p.parseValue()
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected ',' or '}'")
			p.syncToCommaOrClose()
		}
	}
	p.expect(token.RBrace)
	return ds
}

func (p *Parser) parseStateBlock(ds *ast.DataSemantics) {
	if _, ok := p.expect(token.LBrace); !ok {
		return
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected a state field name")
			p.syncToCommaOrClose()
			continue
		}
		fieldSpan := p.cur().Span
		fieldName := p.advance().Text
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		te := p.parseTypeExpression()
		if te != nil {
			if _, dup := ds.State[fieldName]; !dup {
				ds.StateOrder = append(ds.StateOrder, fieldName)
			}
			ds.State[fieldName] = &ast.StateField{Name: fieldName, Type: te, Span: fieldSpan}
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected ',' or '}'")
			p.syncToCommaOrClose()
		}
	}
	p.expect(token.RBrace)
}

func (p *Parser) parseInvariantsList(ds *ast.DataSemantics) {
	v := p.parseValue()
	if v == nil || v.Kind != ast.ValueArray {
		p.addErr(diag.CodeMalformedField, p.cur().Span, "invariants must be a list of strings")
		return
	}
	for _, item := range v.Array {
		s, ok := p.asString(item)
		if !ok {
			p.addErr(diag.CodeMalformedField, item.Span, "invariant entries must be strings")
			continue
		}
		ds.Invariants = append(ds.Invariants, s)
		ds.InvariantSpans = append(ds.InvariantSpans, item.Span)
	}
}

func (p *Parser) parseBehavioralSemantics(span token.Span) *ast.BehavioralSemantics {
	if _, ok := p.expect(token.LBrace); !ok {
		return &ast.BehavioralSemantics{Span: span}
	}
	bs := &ast.BehavioralSemantics{Span: span}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) || p.cur().Text != "operations" {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected 'operations'")
			p.syncToCommaOrClose()
			continue
		}
		p.advance()
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		bs.Operations = p.parseOperationsList()
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.expect(token.RBrace)
	return bs
}

func (p *Parser) parseOperationsList() []*ast.Operation {
	if _, ok := p.expect(token.LBracket); !ok {
		return nil
	}
	var ops []*ast.Operation
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		ops = append(ops, p.parseOperation())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBracket) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected ',' or ']'")
			p.syncToCommaOrClose()
		}
	}
	p.expect(token.RBracket)
	return ops
}

func (p *Parser) parseOperation() *ast.Operation {
	span := p.cur().Span
	if _, ok := p.expect(token.LBrace); !ok {
		return &ast.Operation{Span: span, FieldSpans: map[string]token.Span{}}
	}
	op := &ast.Operation{Span: span, FieldSpans: map[string]token.Span{}}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected an Operation field name")
			p.syncToCommaOrClose()
			continue
		}
		name := p.advance().Text
		fieldSpan := p.cur().Span
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		switch name {
		case "name":
			v := p.parseValue()
			op.Name, _ = p.asString(v)
			op.FieldSpans["name"] = fieldSpan
		case "trigger":
			v := p.parseValue()
			s, _ := p.asString(v)
			op.Trigger = ast.Trigger(s)
			op.FieldSpans["trigger"] = fieldSpan
		case "precondition":
			v := p.parseValue()
			op.Precondition, _ = p.asString(v)
		case "postcondition":
			v := p.parseValue()
			op.Postcondition, _ = p.asString(v)
		case "computation":
			v := p.parseValue()
			op.HasComputation = true
			op.Computation, _ = p.asString(v)
		case "schedule":
			v := p.parseValue()
			op.HasSchedule = true
			op.Schedule, _ = p.asString(v)
		case "idempotence":
			v := p.parseValue()
			s, _ := p.asString(v)
			op.Idempotence = ast.Idempotence(s)
		case "side_effects":
			v := p.parseValue()
			op.SideEffects = p.asStringList(v)
		case "parameters":
			op.Parameters, op.ParamOrder = p.parseParametersBlock()
		default:
			p.addErr(diag.CodeUnexpectedToken, fieldSpan, "unknown Operation field "+name)
			p.parseValue()
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected ',' or '}'")
			p.syncToCommaOrClose()
		}
	}
	p.expect(token.RBrace)
	return op
}

func (p *Parser) parseParametersBlock() (map[string]*ast.OperationParam, []string) {
	if _, ok := p.expect(token.LBrace); !ok {
		return nil, nil
	}
	params := map[string]*ast.OperationParam{}
	var order []string
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected a parameter name")
			p.syncToCommaOrClose()
			continue
		}
		pSpan := p.cur().Span
		pName := p.advance().Text
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		te := p.parseTypeExpression()
		if te != nil {
			if _, dup := params[pName]; !dup {
				order = append(order, pName)
			}
			params[pName] = &ast.OperationParam{Name: pName, Type: te, Span: pSpan}
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected ',' or '}'")
			p.syncToCommaOrClose()
		}
	}
	p.expect(token.RBrace)
	return params, order
}

func (p *Parser) parseExecutionConstraints(span token.Span) *ast.ExecutionConstraints {
	obj := p.parseObjectValue()
	ec := &ast.ExecutionConstraints{Span: span}
	ec.TriggerTypes = p.asStringList(mustField(obj, "trigger_types"))
	ec.ExternalPermissions = p.asStringList(mustField(obj, "external_permissions"))
	if s := p.stringField(obj, span, "ExecutionConstraints", "sandbox_mode", true); s != "" {
		ec.SandboxMode = ast.SandboxMode(s)
	}
	rlv, ok := field(obj, "resource_limits")
	if !ok {
		p.addErr(diag.CodeMalformedField, span, "ExecutionConstraints is missing required field resource_limits")
		return ec
	}
	rl := &ast.ResourceLimits{Span: rlv.Span}
	if v, ok := field(rlv, "max_memory_bytes"); ok {
		rl.MaxMemoryBytes, _ = p.asInt(v)
	}
	if v, ok := field(rlv, "computation_timeout_ms"); ok {
		rl.ComputationTimeoutMs, _ = p.asInt(v)
	}
	if v, ok := field(rlv, "max_state_size_bytes"); ok {
		rl.MaxStateSizeBytes, _ = p.asInt(v)
	}
	ec.ResourceLimits = rl
	return ec
}

// mustField returns the Value for name or nil. An absent list field is
// treated as an empty list and is not reported by the parser or the
// verifier.
func mustField(obj *ast.Value, name string) *ast.Value {
	v, _ := field(obj, name)
	return v
}

func (p *Parser) parseHumanMachineContract(span token.Span) *ast.HumanMachineContract {
	obj := p.parseObjectValue()
	return &ast.HumanMachineContract{
		Span:              span,
		SystemCommitments: p.asStringList(mustField(obj, "system_commitments")),
		SystemRefusals:    p.asStringList(mustField(obj, "system_refusals")),
		UserObligations:   p.asStringList(mustField(obj, "user_obligations")),
		UserEntitlements:  p.asStringList(mustField(obj, "user_entitlements")),
	}
}

func (p *Parser) parseExtensions(span token.Span) []*ast.ExtensionBlock {
	if _, ok := p.expect(token.LBrace); !ok {
		return nil
	}
	var blocks []*ast.ExtensionBlock
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected an extension namespace")
			p.syncToCommaOrClose()
			continue
		}
		nsSpan := p.cur().Span
		ns := p.advance().Text
		body := p.parseObjectValue()
		blocks = append(blocks, &ast.ExtensionBlock{Span: nsSpan, Namespace: ns, Body: body})
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.expect(token.RBrace)
	return blocks
}
