package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"dooble/internal/diag"
	"dooble/internal/token"
)

func isSpace(b byte) bool { return b == ' ' }

// scanObservable сканирует токены вне квадратных скобок.
func (lx *Lexer) scanObservable() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	switch {
	case ch == ' ':
		lx.cursor.BumpWhile(isSpace)
		return lx.emit(token.Space, start)
	case token.IsWordByte(ch):
		lx.cursor.BumpWhile(token.IsWordByte)
		return lx.emit(token.Word, start)
	case lx.cursor.Eat('\n'):
		return lx.emit(token.Newline, start)
	case lx.cursor.Eat('-'):
		return lx.emit(token.Dash, start)
	case lx.cursor.Eat('>'):
		return lx.emit(token.Gt, start)
	case lx.cursor.Eat('|'):
		return lx.emit(token.Pipe, start)
	case lx.cursor.Eat('*'):
		return lx.emit(token.Star, start)
	case lx.cursor.Eat('['):
		lx.inBrack = true
		return lx.emit(token.LBracket, start)
	case lx.cursor.Eat(']'):
		return lx.emit(token.RBracket, start)
	default:
		tok := lx.scanUnknown(start)
		lx.report(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", tok.Text))
		return tok
	}
}

// scanInBrackets сканирует описание оператора до ']' или конца строки.
func (lx *Lexer) scanInBrackets() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	switch {
	case lx.cursor.Eat(']'):
		lx.inBrack = false
		return lx.emit(token.RBracket, start)
	case lx.cursor.Eat('\n'):
		// незакрытая скобка: парсер сообщит об ошибке
		lx.inBrack = false
		return lx.emit(token.Newline, start)
	case token.IsDescriptionByte(ch):
		lx.cursor.BumpWhile(token.IsDescriptionByte)
		return lx.emit(token.Description, start)
	default:
		tok := lx.scanUnknown(start)
		lx.report(diag.LexBadDescription, tok.Span,
			fmt.Sprintf("character %q is not allowed in an operator description", tok.Text))
		return tok
	}
}

// scanUnknown consumes one whole rune so a multi-byte character yields a
// single Invalid token.
func (lx *Lexer) scanUnknown(start Mark) token.Token {
	_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	if size <= 0 {
		size = 1
	}
	usz, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	lx.cursor.Off += usz
	return lx.emit(token.Invalid, start)
}
