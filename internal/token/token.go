package token

import (
	"dooble/internal/source"
)

// Token represents a single notation token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsCompletion reports whether the token ends an observable ('>', '|', '*').
func (t Token) IsCompletion() bool {
	switch t.Kind {
	case Gt, Pipe, Star:
		return true
	default:
		return false
	}
}

// IsLifetime reports whether the token may appear in the lifetime region of
// an observable (a timespan or an item).
func (t Token) IsLifetime() bool {
	return t.Kind == Dash || t.Kind == Word
}

// IsLineEnd reports whether the token terminates the current layer.
func (t Token) IsLineEnd() bool {
	return t.Kind == Newline || t.Kind == EOF
}

// Len returns the width of the token in characters.
// Notation tokens are ASCII, so bytes and characters coincide.
func (t Token) Len() int {
	return len(t.Text)
}

// IsKindMarker reports whether b can open an observable as its kind:
// '+' for a child observable or a lowercase letter for a label.
func IsKindMarker(b byte) bool {
	return b == '+' || (b >= 'a' && b <= 'z')
}

// IsWordByte reports whether b belongs to the item alphabet [a-zA-Z0-9+].
func IsWordByte(b byte) bool {
	return b == '+' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// IsDescriptionByte reports whether b may appear inside operator brackets.
func IsDescriptionByte(b byte) bool {
	switch b {
	case ' ', ',', ':', '+', '*', '(', ')':
		return true
	}
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
