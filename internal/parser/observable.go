package parser

import (
	"fmt"

	"fortio.org/safecast"

	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/source"
	"dooble/internal/token"
)

// parseObservable разбирает `skip* [kind] lifetime* completion`.
// skip — уже съеденный токен пробелов (или nil).
func (p *Parser) parseObservable(skip *token.Token) (ast.LayerID, bool) {
	var (
		skipLen  uint32
		skipSpan = p.lx.EmptySpan()
		start    = p.lx.Peek().Span
	)
	if skip != nil {
		n, err := safecast.Conv[uint32](skip.Len())
		if err != nil {
			panic(fmt.Errorf("skip length overflow: %w", err))
		}
		skipLen = n
		skipSpan = skip.Span
		start = skip.Span
	}

	kind, kindText, kindSpan, lifetimes := p.parseKind()

	for p.lx.Peek().IsLifetime() {
		tok := p.advance()
		kind := ast.LifetimeItem
		if tok.Kind == token.Dash {
			kind = ast.LifetimeTimespan
		}
		lifetimes = append(lifetimes, ast.Lifetime{Kind: kind, Span: tok.Span, Text: tok.Text})
	}

	completion, compSpan, ok := p.parseCompletion()
	if !ok {
		return ast.NoLayerID, false
	}

	id := p.arenas.Layers.NewObservable(
		skipLen, skipSpan,
		kind, kindText, kindSpan,
		lifetimes,
		completion, compSpan,
		p.line,
		start.Cover(compSpan),
	)
	return id, true
}

// parseKind resolves the optional kind marker. The lexer produces maximal
// words, so a word starting with '+' or a lowercase letter carries the kind
// in its first byte and the first item in the remainder.
func (p *Parser) parseKind() (kind ast.KindMarker, text string, sp source.Span, rest []ast.Lifetime) {
	sp = p.lx.EmptySpan()
	tok := p.lx.Peek()
	if tok.Kind != token.Word || !token.IsKindMarker(tok.Text[0]) {
		return ast.KindNone, "", sp, nil
	}
	p.advance()

	text = tok.Text[:1]
	kind = ast.KindLabel
	if text == "+" {
		kind = ast.KindChild
	}
	sp = source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1}
	if len(tok.Text) > 1 {
		rest = append(rest, ast.Lifetime{
			Kind: ast.LifetimeItem,
			Span: source.Span{File: tok.Span.File, Start: sp.End, End: tok.Span.End},
			Text: tok.Text[1:],
		})
	}
	return kind, text, sp, rest
}

func (p *Parser) parseCompletion() (ast.CompletionKind, source.Span, bool) {
	tok := p.lx.Peek()
	if tok.IsCompletion() {
		p.advance()
		switch tok.Kind {
		case token.Gt:
			return ast.CompletionContinued, tok.Span, true
		case token.Star:
			return ast.CompletionErrored, tok.Span, true
		default:
			return ast.CompletionCompleted, tok.Span, true
		}
	}
	switch tok.Kind {
	case token.Space:
		p.report(diag.SynSpaceInLifetime, diag.SevError, tok.Span,
			"spaces are only allowed before the start of an observable")
	case token.Invalid:
		// лексер уже сообщил о символе; уточняем, чего ждали
		p.report(diag.SynExpectCompletion, diag.SevError, tok.Span,
			fmt.Sprintf("expected completion marker ('>', '|' or '*'), got %q", tok.Text))
	case token.LBracket, token.RBracket:
		p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span,
			fmt.Sprintf("unexpected %q inside an observable", tok.Text))
	default:
		p.err(diag.SynExpectCompletion,
			"expected completion marker ('>', '|' or '*'), got "+describe(tok))
	}
	return ast.CompletionInvalid, tok.Span, false
}
