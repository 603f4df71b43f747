package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/lexer"
	"dooble/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.txt", []byte(input))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(context.Background(), fs, lx, b, Options{Reporter: reporter, MaxErrors: 100})
	return b, res.File, bag
}

func mustParse(t *testing.T, input string) (*ast.Builder, ast.FileID) {
	t.Helper()
	b, file, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %s", input, diagnosticsSummary(bag))
	}
	return b, file
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
