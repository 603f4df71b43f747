package lexer

import (
	"dooble/internal/source"
	"dooble/internal/token"
)

// Lexer turns a notation file into tokens. It keeps one bit of context:
// whether it is inside operator brackets, where the description alphabet
// applies instead of the observable alphabet.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token // 1 элементный буфер для токена
	inBrack bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		lx.inBrack = false
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	if lx.inBrack {
		return lx.scanInBrackets()
	}
	return lx.scanObservable()
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is a zero-width span at the current cursor offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: k,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
