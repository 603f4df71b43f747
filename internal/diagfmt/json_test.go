package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"dooble/internal/diag"
	"dooble/internal/source"
)

func TestJSONDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("j.txt", []byte("-|\n[]\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SynEmptyDescription,
		source.Span{File: fileID, Start: 4, End: 5}, "operator description must not be empty"))
	bag.Add(diag.New(diag.SevWarning, diag.SynEmptyDescription,
		source.Span{File: fileID, Start: 0, End: 1}, "second"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Max must cut output to 1, got %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2006" || d.Severity != "ERROR" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location.File != "j.txt" || d.Location.StartLine != 2 || d.Location.StartCol != 2 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
}
