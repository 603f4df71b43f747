package lexer

import (
	"testing"

	"dooble/internal/diag"
	"dooble/internal/token"
)

type lexed struct {
	kind token.Kind
	text string
}

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	lx := New(createFile(input), Options{Reporter: &diag.BagReporter{Bag: bag}})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
		if len(toks) > 1000 {
			t.Fatalf("lexer did not terminate")
		}
	}
	return toks, bag
}

func expectTokens(t *testing.T, input string, want []lexed) {
	t.Helper()
	toks, bag := lexAll(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %+v", input, bag.Items())
	}
	if len(toks) != len(want) {
		t.Fatalf("%q: want %d tokens, got %d (%v)", input, len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Fatalf("%q token %d: want %s %q, got %s %q",
				input, i, w.kind, w.text, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestSimpleObservable(t *testing.T) {
	expectTokens(t, "-a-b-|", []lexed{
		{token.Dash, "-"},
		{token.Word, "a"},
		{token.Dash, "-"},
		{token.Word, "b"},
		{token.Dash, "-"},
		{token.Pipe, "|"},
		{token.EOF, ""},
	})
}

func TestCompletionsAndSkip(t *testing.T) {
	expectTokens(t, "   +--12>\n-*", []lexed{
		{token.Space, "   "},
		{token.Word, "+"},
		{token.Dash, "-"},
		{token.Dash, "-"},
		{token.Word, "12"},
		{token.Gt, ">"},
		{token.Newline, "\n"},
		{token.Dash, "-"},
		{token.Star, "*"},
		{token.EOF, ""},
	})
}

func TestOperatorDescription(t *testing.T) {
	expectTokens(t, "[ map(x: x*2), 3+ ]\n", []lexed{
		{token.LBracket, "["},
		{token.Description, " map(x: x*2), 3+ "},
		{token.RBracket, "]"},
		{token.Newline, "\n"},
		{token.EOF, ""},
	})
}

func TestUnclosedBracketEndsAtNewline(t *testing.T) {
	expectTokens(t, "[abc\n-|", []lexed{
		{token.LBracket, "["},
		{token.Description, "abc"},
		{token.Newline, "\n"},
		{token.Dash, "-"},
		{token.Pipe, "|"},
		{token.EOF, ""},
	})
}

func TestSpans(t *testing.T) {
	toks, _ := lexAll(t, "--ab|")
	w := toks[2]
	if w.Kind != token.Word || w.Span.Start != 2 || w.Span.End != 4 {
		t.Fatalf("word span: want 2..4, got %s %d..%d", w.Kind, w.Span.Start, w.Span.End)
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, bag := lexAll(t, "-é-|")
	if toks[1].Kind != token.Invalid || toks[1].Text != "é" {
		t.Fatalf("want Invalid 'é', got %s %q", toks[1].Kind, toks[1].Text)
	}
	if toks[2].Kind != token.Dash {
		t.Fatalf("lexing should resume after invalid rune, got %s", toks[2].Kind)
	}
	first, ok := bag.FirstError()
	if !ok || first.Code != diag.LexUnknownChar {
		t.Fatalf("want LexUnknownChar, got %+v", first)
	}
}

func TestBadDescriptionCharacter(t *testing.T) {
	toks, bag := lexAll(t, "[a.b]")
	kinds := []token.Kind{token.LBracket, token.Description, token.Invalid, token.Description, token.RBracket, token.EOF}
	if len(toks) != len(kinds) {
		t.Fatalf("want %d tokens, got %d", len(kinds), len(toks))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: want %s, got %s", i, k, toks[i].Kind)
		}
	}
	first, ok := bag.FirstError()
	if !ok || first.Code != diag.LexBadDescription {
		t.Fatalf("want LexBadDescription, got %+v", first)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := New(createFile("a|"), Options{})
	p := lx.Peek()
	n := lx.Next()
	if p != n {
		t.Fatalf("Peek/Next mismatch: %v vs %v", p, n)
	}
	if lx.Next().Kind != token.Pipe {
		t.Fatalf("expected Pipe after word")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must be sticky")
	}
}
