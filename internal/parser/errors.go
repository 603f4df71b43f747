package parser

import (
	"fmt"

	"dooble/internal/diag"
	"dooble/internal/source"
)

// SyntaxError reports the first error of a failed parse. The complete
// diagnostic list stays in the bag that was used for parsing.
type SyntaxError struct {
	Path     string
	Line     uint32 // 1-based
	Column   uint32 // 1-based
	Code     diag.Code
	Message  string
	LineText string
	Span     source.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Column, e.Code.ID(), e.Message)
}

// NewSyntaxError resolves a diagnostic against fs.
func NewSyntaxError(fs *source.FileSet, d *diag.Diagnostic) *SyntaxError {
	se := &SyntaxError{
		Code:    d.Code,
		Message: d.Message,
		Span:    d.Primary,
	}
	if fs == nil || int(d.Primary.File) >= fs.Len() {
		return se
	}
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	se.Path = f.Path
	se.Line = start.Line
	se.Column = start.Col
	se.LineText = f.GetLine(start.Line)
	return se
}

// SyntaxErrorFromBag returns the first error in bag as a SyntaxError, or
// nil when the bag has no errors.
func SyntaxErrorFromBag(fs *source.FileSet, bag *diag.Bag) error {
	if bag == nil {
		return nil
	}
	first, ok := bag.FirstError()
	if !ok {
		return nil
	}
	return NewSyntaxError(fs, &first)
}
