package driver

import (
	"dooble/internal/diag"
	"dooble/internal/lexer"
	"dooble/internal/source"
	"dooble/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokenizeFile(file, bag),
		Bag:     bag,
	}, nil
}

// tokenizeFile собирает все токены до EOF включительно.
func tokenizeFile(file *source.File, bag *diag.Bag) []token.Token {
	reporterAdapter := &lexer.ReporterAdapter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporterAdapter.Reporter()})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}
