// Package parser implements the ICL recursive-descent parser: a
// resynchronizing parser that accumulates diagnostics rather than stopping
// at the first syntax error.
package parser

import (
	"fmt"

	"github.com/icl-run/icl-core/pkg/ast"
	"github.com/icl-run/icl-core/pkg/diag"
	"github.com/icl-run/icl-core/pkg/token"
)

// Parser walks a fixed token slice produced by the tokenizer.
type Parser struct {
	toks []token.Token
	pos  int
	errs []diag.Diagnostic
}

// New builds a Parser over an already-tokenized source.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse runs the tokenizer and parser over src and returns the resulting
// Contract (which may be partial when errs is non-empty) plus any
// accumulated diagnostics.
func Parse(src string) (*ast.Contract, []diag.Diagnostic) {
	toks, lexErr := token.Tokenize(src)
	if lexErr != nil {
		return nil, []diag.Diagnostic{
			diag.New(diag.PhaseLex, diag.CodeLexError, lexErr.Message).WithSpan(lexErr.Span),
		}
	}
	p := New(toks)
	c := p.parseContract()
	return c, p.errs
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) addErr(code diag.Code, span token.Span, message string) {
	p.errs = append(p.errs, diag.New(diag.PhaseParse, code, message).WithSpan(span))
}

// expect consumes a token of kind k or records an UnexpectedToken
// diagnostic and returns the current (unconsumed) token unchanged.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	cur := p.cur()
	p.addErr(diag.CodeUnexpectedToken, cur.Span,
		fmt.Sprintf("expected %s, found %s %q", k, cur.Kind, cur.Text))
	return cur, false
}

// syncToCommaOrClose resynchronizes after a recoverable error: it advances
// to the next comma at the parser's current nesting depth, or to the next
// closing brace/bracket that would exit the enclosing block (that token is
// left unconsumed so the caller's own close-handling fires normally).
func (p *Parser) syncToCommaOrClose() {
	depth := 0
	for {
		switch p.cur().Kind {
		case token.EOF:
			return
		case token.LBrace, token.LBracket:
			depth++
			p.advance()
		case token.RBrace, token.RBracket:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
		case token.Comma:
			if depth == 0 {
				p.advance()
				return
			}
			p.advance()
		default:
			p.advance()
		}
	}
}

// parseContract parses the `Contract { <sections> }` entry production.
func (p *Parser) parseContract() *ast.Contract {
	start := p.cur().Span
	c := &ast.Contract{Span: start}

	if p.at(token.Identifier) && p.cur().Text == "Contract" {
		p.advance()
	} else {
		p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected top-level 'Contract' block")
	}
	if _, ok := p.expect(token.LBrace); !ok {
		return c
	}

	seen := map[ast.SectionName]bool{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.addErr(diag.CodeUnexpectedToken, p.cur().Span, "expected a section name")
			p.syncToCommaOrClose()
			continue
		}
		name := ast.SectionName(p.cur().Text)
		nameSpan := p.cur().Span
		if !isKnownSection(name) {
			p.addErr(diag.CodeUnexpectedToken, nameSpan, fmt.Sprintf("unknown section %q", name))
			p.advance()
			if !p.at(token.LBrace) {
				p.syncToCommaOrClose()
				continue
			}
			// Skip the unknown section's balanced block so the sections
			// after it are still parsed.
			for depth := 0; !p.at(token.EOF); {
				switch p.advance().Kind {
				case token.LBrace:
					depth++
				case token.RBrace:
					depth--
				}
				if depth == 0 {
					break
				}
			}
			continue
		}
		p.advance()

		if seen[name] {
			p.addErr(diag.CodeDuplicateSection, nameSpan, fmt.Sprintf("duplicate section %s", name))
		}
		seen[name] = true
		c.SourceOrder = append(c.SourceOrder, name)

		switch name {
		case ast.SectionIdentity:
			c.Identity = p.parseIdentity(nameSpan)
		case ast.SectionPurposeStatement:
			c.PurposeStatement = p.parsePurposeStatement(nameSpan)
		case ast.SectionDataSemantics:
			c.DataSemantics = p.parseDataSemantics(nameSpan)
		case ast.SectionBehavioralSemantics:
			c.BehavioralSemantics = p.parseBehavioralSemantics(nameSpan)
		case ast.SectionExecutionConstraints:
			c.ExecutionConstraints = p.parseExecutionConstraints(nameSpan)
		case ast.SectionHumanMachineContract:
			c.HumanMachineContract = p.parseHumanMachineContract(nameSpan)
		case ast.SectionExtensions:
			c.Extensions = append(c.Extensions, p.parseExtensions(nameSpan)...)
		}
	}
	p.expect(token.RBrace)

	for _, req := range requiredSections {
		if !seen[req] {
			p.addErr(diag.CodeMissingSection, start, fmt.Sprintf("missing required section %s", req))
		}
	}
	return c
}

var requiredSections = []ast.SectionName{
	ast.SectionIdentity,
	ast.SectionPurposeStatement,
	ast.SectionDataSemantics,
	ast.SectionBehavioralSemantics,
	ast.SectionExecutionConstraints,
	ast.SectionHumanMachineContract,
}

func isKnownSection(n ast.SectionName) bool {
	switch n {
	case ast.SectionIdentity, ast.SectionPurposeStatement, ast.SectionDataSemantics,
		ast.SectionBehavioralSemantics, ast.SectionExecutionConstraints,
		ast.SectionHumanMachineContract, ast.SectionExtensions:
		return true
	default:
		return false
	}
}
