package token_test

import (
	"testing"

	"dooble/internal/source"
	"dooble/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsCompletion(t *testing.T) {
	for _, k := range []token.Kind{token.Gt, token.Pipe, token.Star} {
		if !tok(k).IsCompletion() {
			t.Fatalf("%v should be a completion", k)
		}
	}
	for _, k := range []token.Kind{token.Dash, token.Word, token.RBracket, token.EOF} {
		if tok(k).IsCompletion() {
			t.Fatalf("%v must NOT be a completion", k)
		}
	}
}

func TestIsLifetimeAndLineEnd(t *testing.T) {
	if !tok(token.Dash).IsLifetime() || !tok(token.Word).IsLifetime() {
		t.Fatalf("dash and word are lifetime tokens")
	}
	if tok(token.Space).IsLifetime() {
		t.Fatalf("space is not a lifetime token")
	}
	if !tok(token.Newline).IsLineEnd() || !tok(token.EOF).IsLineEnd() {
		t.Fatalf("newline and EOF end a layer")
	}
}

func TestByteClasses(t *testing.T) {
	for _, b := range []byte("+az") {
		if !token.IsKindMarker(b) {
			t.Fatalf("%q should be a kind marker", b)
		}
	}
	for _, b := range []byte("A0-") {
		if token.IsKindMarker(b) {
			t.Fatalf("%q must NOT be a kind marker", b)
		}
	}
	for _, b := range []byte("aZ9+") {
		if !token.IsWordByte(b) {
			t.Fatalf("%q should be a word byte", b)
		}
	}
	for _, b := range []byte("- |>*[]%") {
		if token.IsWordByte(b) {
			t.Fatalf("%q must NOT be a word byte", b)
		}
	}
	for _, b := range []byte("aZ9 ,:+*()") {
		if !token.IsDescriptionByte(b) {
			t.Fatalf("%q should be a description byte", b)
		}
	}
	for _, b := range []byte("-[]|>%\n") {
		if token.IsDescriptionByte(b) {
			t.Fatalf("%q must NOT be a description byte", b)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.Description.String() != "Description" {
		t.Fatalf("unexpected name %q", token.Description.String())
	}
	if token.Kind(200).String() != "Kind(?)" {
		t.Fatalf("out of range kinds must not panic")
	}
}
