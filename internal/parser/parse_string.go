package parser

import (
	"context"

	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/lexer"
	"dooble/internal/source"
)

// ParseString parses in-memory notation text. On failure it returns a
// *SyntaxError and no AST.
func ParseString(name, text string) (*ast.Builder, ast.FileID, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return ParseSource(context.Background(), fs, id)
}

// ParseSource parses a file already present in fs.
func ParseSource(ctx context.Context, fs *source.FileSet, id source.FileID) (*ast.Builder, ast.FileID, error) {
	bag := diag.NewBag(0)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	res := ParseFile(ctx, fs, lx, builder, Options{Reporter: reporter})
	if res.Err != nil {
		return nil, ast.NoFileID, res.Err
	}
	if err := SyntaxErrorFromBag(fs, bag); err != nil {
		return nil, ast.NoFileID, err
	}
	return builder, res.File, nil
}
