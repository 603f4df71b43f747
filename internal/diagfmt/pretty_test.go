package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"dooble/internal/diag"
	"dooble/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/diagrams/test.txt", []byte("-a-%\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar,
		source.Span{File: fileID, Start: 3, End: 4}, "unknown character '%'"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/diagrams/test.txt:1:4"},
		{"Relative path", PathModeRelative, "diagrams/test.txt:1:4"},
		{"Basename only", PathModeBasename, "test.txt:1:4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Color: false, Context: 1, PathMode: tt.mode})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1001", "unknown character"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettyCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("d.txt", []byte("-|\n-ab -|\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SynSpaceInLifetime,
		source.Span{File: fileID, Start: 6, End: 7}, "space"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 0})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header, source and caret lines, got:\n%s", buf.String())
	}
	if lines[1] != "2 | -ab -|" {
		t.Fatalf("source line: got %q", lines[1])
	}
	if lines[2] != "  |    ^" {
		t.Fatalf("caret line: got %q", lines[2])
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("n.txt", []byte("[ a ]\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.PrjLinksInvalid, source.Span{File: fileID}, "bad link").
		WithNote(source.Span{File: fileID, Start: 2, End: 3}, "declared here"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "note: n.txt:1:3: declared here") {
		t.Fatalf("note missing:\n%s", buf.String())
	}
}

func TestUnderlineWidth(t *testing.T) {
	got := underline("-abc-|", source.LineCol{Line: 1, Col: 2}, source.LineCol{Line: 1, Col: 5})
	if got != " ^~~" {
		t.Fatalf("underline: got %q", got)
	}
}
