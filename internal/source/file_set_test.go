package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.txt", []byte("-a-|"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("test.txt", []byte("-b-|"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.txt")
	if !exists || latestID != id2 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "-a-|" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.txt", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("crlf.txt", []byte{0xEF, 0xBB, 0xBF, '-', '|', '\r', '\n', '>', '\r', '\n'})
	file := fs.Get(id)

	if string(file.Content) != "-|\n>\n" {
		t.Fatalf("unexpected normalized content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %08b", file.Flags)
	}
}

func TestResolveAndColumn(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.txt", []byte("-a-|\n  +-b|\n"))
	file := fs.Get(id)

	start, end := fs.Resolve(Span{File: id, Start: 7, End: 8})
	if start != (LineCol{Line: 2, Col: 3}) || end != (LineCol{Line: 2, Col: 4}) {
		t.Fatalf("Resolve = %v..%v", start, end)
	}

	// '\n' в конце первой строки всё ещё принадлежит первой строке
	if lc, _ := fs.Resolve(Span{File: id, Start: 4, End: 4}); lc.Line != 1 || lc.Col != 5 {
		t.Fatalf("newline resolved to %v", lc)
	}

	if got := file.LineStart(9); got != 5 {
		t.Fatalf("LineStart(9) = %d, want 5", got)
	}
	if got := file.Column(9); got != 4 {
		t.Fatalf("Column(9) = %d, want 4", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("l.txt", []byte("first\nsecond\nthird"))
	file := fs.Get(id)

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for line, want := range cases {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.txt")
	if err := os.WriteFile(path, []byte("-a-|\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "-a-|\n" {
		t.Fatalf("content = %q", file.Content)
	}
	if file.Flags&FileVirtual != 0 {
		t.Fatalf("disk file must not be virtual")
	}
	if got := file.FormatPath("relative", dir); got != "disk.txt" {
		t.Fatalf("relative path = %q", got)
	}
	if got := file.FormatPath("basename", ""); got != "disk.txt" {
		t.Fatalf("basename = %q", got)
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
