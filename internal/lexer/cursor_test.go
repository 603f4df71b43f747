package lexer

import (
	"testing"

	"dooble/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.txt", []byte(content))
	return fs.Get(id)
}

func TestSequentialReading(t *testing.T) {
	f := createFile("-a|")
	c := NewCursor(f)

	want := []byte{'-', 'a', '|'}
	for i, w := range want {
		if c.EOF() {
			t.Fatalf("unexpected EOF at %d", i)
		}
		if got := c.Bump(); got != w {
			t.Fatalf("byte %d: want %q, got %q", i, w, got)
		}
	}
	if !c.EOF() {
		t.Fatalf("expected EOF")
	}
	if got := c.Bump(); got != 0 {
		t.Fatalf("Bump after EOF: want 0, got %q", got)
	}
	if got := c.Peek(); got != 0 {
		t.Fatalf("Peek after EOF: want 0, got %q", got)
	}
}

func TestMarkAndSpan(t *testing.T) {
	f := createFile("--abc|")
	c := NewCursor(f)
	c.Bump()
	c.Bump()
	m := c.Mark()
	if n := c.BumpWhile(func(b byte) bool { return b >= 'a' && b <= 'z' }); n != 3 {
		t.Fatalf("BumpWhile: want 3, got %d", n)
	}
	sp := c.SpanFrom(m)
	if sp.Start != 2 || sp.End != 5 {
		t.Fatalf("span: want 2..5, got %d..%d", sp.Start, sp.End)
	}
}

func TestEat(t *testing.T) {
	c := NewCursor(createFile("[x]"))
	if c.Eat(']') {
		t.Fatalf("Eat should not consume mismatching byte")
	}
	if !c.Eat('[') {
		t.Fatalf("Eat should consume '['")
	}
	if c.Off != 1 {
		t.Fatalf("offset: want 1, got %d", c.Off)
	}
}
