package parser

import (
	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/token"
)

// parseValue parses one of: a scalar literal (string/number/bool/timestamp/
// uuid, or a bare identifier used as an enum-like value such as
// `manual`), an object block `{ ... }`, or an array `[ ... ]`.
func (p *Parser) parseValue() *ast.Value {
	cur := p.cur()
	switch cur.Kind {
	case token.StringLit, token.IntLit, token.FloatLit, token.BoolLit, token.TimestampLit, token.UuidLit, token.Identifier:
		p.advance()
		return &ast.Value{
			Kind: ast.ValueLiteral,
			Span: cur.Span,
			Literal: &ast.Literal{
				Kind:  cur.Kind,
				Text:  cur.Text,
				Int:   cur.IntValue,
				Float: cur.FloatValue,
				Bool:  cur.BoolValue,
				Span:  cur.Span,
			},
		}
	case token.LBrace:
		return p.parseObjectValue()
	case token.LBracket:
		return p.parseArrayValue()
	default:
		p.addErr(diag.CodeUnexpectedToken, cur.Span, "expected a value")
		p.syncToCommaOrClose()
		return nil
	}
}

// parseObjectValue parses `{ name : value, ... }` into a generic object.
func (p *Parser) parseObjectValue() *ast.Value {
	start, _ := p.expect(token.LBrace)
	v := &ast.Value{Kind: ast.ValueObject, Span: start.Span, Object: map[string]*ast.Value{}}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected a field name")
			p.syncToCommaOrClose()
			continue
		}
		fieldName := p.advance().Text
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		fv := p.parseValue()
		if fv != nil {
			if _, dup := v.Object[fieldName]; !dup {
				v.Order = append(v.Order, fieldName)
			}
			v.Object[fieldName] = fv
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
	return v
}

// parseArrayValue parses `[ value, value, ... ]`.
func (p *Parser) parseArrayValue() *ast.Value {
	start, _ := p.expect(token.LBracket)
	v := &ast.Value{Kind: ast.ValueArray, Span: start.Span}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		ev := p.parseValue()
		if ev != nil {
			v.Array = append(v.Array, ev)
		}
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
	return v
}
