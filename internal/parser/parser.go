package parser

import (
	"context"

	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/lexer"
	"dooble/internal/source"
	"dooble/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is spent; parsing stops there.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
	// Err is set when parsing stopped because ctx was cancelled.
	Err error
}

// Parser — состояние парсера на один файл. Грамматика не имеет
// глобального состояния: каждый разбор создаёт свой Parser.
type Parser struct {
	lx       *lexer.Lexer    // поток токенов (Peek/Next)
	arenas   *ast.Builder    // построитель аренных узлов
	file     ast.FileID      // текущий FileID (в AST)
	fs       *source.FileSet // нужен только для спанов/путей при надобности
	opts     Options
	line     uint32      // текущая строка (1-based)
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.Files.New(lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		line:     1,
		lastSpan: lx.EmptySpan(),
	}

	err := p.parseLayers(ctx)
	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = br.Bag
	case diag.BagReporter:
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
		Err:  err,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atLineEnd() bool {
	return p.lx.Peek().IsLineEnd()
}

// parseLayers — основной цикл: одна непустая строка = один слой.
func (p *Parser) parseLayers(ctx context.Context) error {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.skipBlankLine() {
			continue
		}
		layerID, ok := p.parseLayer()
		if ok {
			if !p.atLineEnd() {
				p.err(diag.SynTrailingAfterEnd, "unexpected "+describe(p.lx.Peek())+" after the end of the layer")
				ok = false
			} else {
				p.arenas.PushLayer(p.file, layerID)
			}
		}
		if !ok {
			p.resyncLine()
		}
		p.finishLine()
		if p.opts.Enough() {
			break
		}
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
	return nil
}

// skipBlankLine consumes an empty line. A line of spaces is not blank: it is
// an observable that never reaches its completion marker.
func (p *Parser) skipBlankLine() bool {
	if !p.at(token.Newline) {
		return false
	}
	p.finishLine()
	return true
}

// parseLayer выбирает по первому токену строки нужный распознаватель.
func (p *Parser) parseLayer() (ast.LayerID, bool) {
	var skip *token.Token
	if p.at(token.Space) {
		sp := p.advance()
		skip = &sp
	}
	switch p.lx.Peek().Kind {
	case token.LBracket:
		if skip != nil {
			p.report(diag.SynOperatorNotAtStart, diag.SevError, skip.Span.Cover(p.lx.Peek().Span),
				"operator must start at the beginning of the line")
			return ast.NoLayerID, false
		}
		return p.parseOperator()
	case token.RBracket:
		p.err(diag.SynUnexpectedCloseBracket, "unexpected ']' without matching '['")
		return ast.NoLayerID, false
	default:
		return p.parseObservable(skip)
	}
}

// resyncLine — восстановление после ошибки: прокручиваем до конца строки.
func (p *Parser) resyncLine() {
	for !p.atLineEnd() {
		p.advance()
	}
}

// finishLine съедает перевод строки, если он есть.
func (p *Parser) finishLine() {
	if p.at(token.Newline) {
		p.advance()
		p.line++
	}
}
