package parser

import (
	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/token"
)

// field looks up a decoded field by name from an already-parsed object
// value. It reports not-found without a diagnostic when the object itself
// is nil (a prior parse error already reported the underlying cause).
func field(obj *ast.Value, name string) (*ast.Value, bool) {
	if obj == nil || obj.Object == nil {
		return nil, false
	}
	v, ok := obj.Object[name]
	return v, ok
}

func (p *Parser) requireField(obj *ast.Value, span token.Span, section, name string) *ast.Value {
	v, ok := field(obj, name)
	if !ok {
		p.addErr(diag.CodeMalformedField, span, section+" is missing required field "+name)
		return nil
	}
	return v
}

func (p *Parser) asString(v *ast.Value) (string, bool) {
	if v == nil || v.Kind != ast.ValueLiteral || v.Literal == nil {
		return "", false
	}
	switch v.Literal.Kind {
	case token.StringLit, token.Identifier, token.TimestampLit, token.UuidLit:
		return v.Literal.Text, true
	default:
		return "", false
	}
}

func (p *Parser) asInt(v *ast.Value) (int64, bool) {
	if v == nil || v.Kind != ast.ValueLiteral || v.Literal == nil || v.Literal.Kind != token.IntLit {
		return 0, false
	}
	return v.Literal.Int, true
}

func (p *Parser) asFloat(v *ast.Value) (float64, bool) {
	if v == nil || v.Kind != ast.ValueLiteral || v.Literal == nil {
		return 0, false
	}
	switch v.Literal.Kind {
	case token.FloatLit:
		return v.Literal.Float, true
	case token.IntLit:
		return float64(v.Literal.Int), true
	default:
		return 0, false
	}
}

func (p *Parser) asStringList(v *ast.Value) []string {
	if v == nil || v.Kind != ast.ValueArray {
		return nil
	}
	out := make([]string, 0, len(v.Array))
	for _, item := range v.Array {
		s, ok := p.asString(item)
		if !ok {
			p.addErr(diag.CodeMalformedField, item.Span, "expected a string list element")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (p *Parser) stringField(obj *ast.Value, span token.Span, section, name string, required bool) string {
	v, ok := field(obj, name)
	if !ok {
		if required {
			p.addErr(diag.CodeMalformedField, span, section+" is missing required field "+name)
		}
		return ""
	}
	s, ok := p.asString(v)
	if !ok {
		p.addErr(diag.CodeMalformedField, v.Span, section+"."+name+" must be a string")
	}
	return s
}
