package parser

import (
	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/token"
)

var primitiveNames = map[string]ast.Primitive{
	"String":  ast.PrimitiveString,
	"Integer": ast.PrimitiveInteger,
	"Float":   ast.PrimitiveFloat,
	"Boolean": ast.PrimitiveBoolean,
	"Iso8601": ast.PrimitiveIso8601,
	"Uuid":    ast.PrimitiveUuid,
}

// parseTypeExpression parses a TypeExpression per §4.2: a bare primitive
// name, `Enum[a,b,c]`, `Array<T>`, `Map<K,V>`, an object block with typed
// fields, each with an optional `= literal` default.
func (p *Parser) parseTypeExpression() *ast.TypeExpression {
	cur := p.cur()

	switch {
	case cur.Kind == token.LBrace:
		return p.parseObjectTypeExpression()

	case cur.Kind == token.Identifier && cur.Text == "Enum":
		p.advance()
		if _, ok := p.expect(token.LBracket); !ok {
			return nil
		}
		te := &ast.TypeExpression{Kind: ast.TypeEnum, Span: cur.Span}
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			if !p.at(token.Identifier) && !p.at(token.StringLit) {
				p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected an enum variant name")
				p.syncToCommaOrClose()
				continue
			}
			te.EnumVariants = append(te.EnumVariants, p.advance().Text)
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
		p.parseOptionalDefault(te)
		return te

	case cur.Kind == token.Identifier && cur.Text == "Array":
		p.advance()
		if _, ok := p.expect(token.Lt); !ok {
			return nil
		}
		elem := p.parseTypeExpression()
		p.expect(token.Gt)
		te := &ast.TypeExpression{Kind: ast.TypeArray, Span: cur.Span, Element: elem}
		p.parseOptionalDefault(te)
		return te

	case cur.Kind == token.Identifier && cur.Text == "Map":
		p.advance()
		if _, ok := p.expect(token.Lt); !ok {
			return nil
		}
		key := p.parseTypeExpression()
		p.expect(token.Comma)
		val := p.parseTypeExpression()
		p.expect(token.Gt)
		te := &ast.TypeExpression{Kind: ast.TypeMap, Span: cur.Span, Key: key, Value: val}
		p.parseOptionalDefault(te)
		return te

	case cur.Kind == token.Identifier:
		prim, ok := primitiveNames[cur.Text]
		if !ok {
			p.addErr(diag.CodeInvalidType, cur.Span, "unknown type name "+cur.Text)
			p.advance()
			return nil
		}
		p.advance()
		te := &ast.TypeExpression{Kind: ast.TypePrimitive, Span: cur.Span, Primitive: prim}
		p.parseOptionalDefault(te)
		return te

	default:
		p.addErr(diag.CodeUnexpectedToken, cur.Span, "expected a type expression")
		p.syncToCommaOrClose()
		return nil
	}
}

// parseObjectTypeExpression parses `{ name : TypeExpression, ... }`.
func (p *Parser) parseObjectTypeExpression() *ast.TypeExpression {
	start, _ := p.expect(token.LBrace)
	te := &ast.TypeExpression{Kind: ast.TypeObject, Span: start.Span, ObjectFields: map[string]*ast.TypeExpression{}}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected a field name")
			p.syncToCommaOrClose()
			continue
		}
		name := p.advance().Text
		if _, ok := p.expect(token.Colon); !ok {
			p.syncToCommaOrClose()
			continue
		}
		fieldType := p.parseTypeExpression()
		if fieldType != nil {
			if _, dup := te.ObjectFields[name]; !dup {
				te.ObjectOrder = append(te.ObjectOrder, name)
			}
			te.ObjectFields[name] = fieldType
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
	p.parseOptionalDefault(te)
	return te
}

func (p *Parser) parseOptionalDefault(te *ast.TypeExpression) {
	if !p.at(token.Equals) {
		return
	}
	p.advance()
	cur := p.cur()
	switch cur.Kind {
	case token.StringLit, token.IntLit, token.FloatLit, token.BoolLit, token.TimestampLit, token.UuidLit:
		p.advance()
		te.Default = &ast.Literal{
			Kind: cur.Kind, Text: cur.Text, Int: cur.IntValue,
			Float: cur.FloatValue, Bool: cur.BoolValue, Span: cur.Span,
		}
	default:
		p.addErr(diag.CodeUnexpectedToken, cur.Span, "expected a default literal after '='")
	}
}
