package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/lexer"
	"dooble/internal/parser"
	"dooble/internal/source"
	"dooble/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse parses one notation file. Syntax problems end up in Bag; the
// returned error is reserved for I/O failures and cancellation.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	ctx, span := trace.BeginDiagram(ctx, filePath)
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		span.End(err)
		return nil, err
	}
	res, err := parseLoaded(ctx, fs, fileID, maxDiagnostics)
	if err == nil {
		span.SetLayers(len(res.Builder.Files.Get(res.FileID).Layers)).Note(fmt.Sprintf("%d diagnostics", res.Bag.Len()))
	}
	span.End(err)
	return res, err
}

func parseLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, maxDiagnostics int) (*ParseResult, error) {
	file := fs.Get(fileID)

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	opts := parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	}

	result := parser.ParseFile(ctx, fs, lx, builder, opts)
	if result.Err != nil {
		return nil, result.Err
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
