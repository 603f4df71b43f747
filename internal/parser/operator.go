package parser

import (
	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/token"
)

// parseOperator разбирает `'[' description ']'`.
func (p *Parser) parseOperator() (ast.LayerID, bool) {
	open := p.advance() // '['

	if p.at(token.RBracket) {
		p.err(diag.SynEmptyDescription, "operator description must not be empty")
		return ast.NoLayerID, false
	}
	if p.atLineEnd() {
		p.report(diag.SynUnclosedBracket, diag.SevError, open.Span, "unclosed '[': expected description and ']'")
		return ast.NoLayerID, false
	}
	desc, ok := p.expect(token.Description, diag.SynUnexpectedToken, "expected operator description")
	if !ok {
		return ast.NoLayerID, false
	}

	switch {
	case p.at(token.RBracket):
	case p.atLineEnd():
		p.report(diag.SynUnclosedBracket, diag.SevError, open.Span.Cover(desc.Span), "unclosed '[': expected ']'")
		return ast.NoLayerID, false
	default:
		// недопустимый символ внутри скобок: лексер уже выдал диагностику
		return ast.NoLayerID, false
	}
	closing := p.advance()

	id := p.arenas.Layers.NewOperator(
		desc.Text, desc.Span,
		open.Span, closing.Span,
		p.line,
		open.Span.Cover(closing.Span),
	)
	return id, true
}
