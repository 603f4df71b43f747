package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"dooble/internal/diag"
	"dooble/internal/lower"
	"dooble/internal/parser"
	"dooble/internal/project"
	"dooble/internal/token"
	"dooble/internal/trace"
)

func writeDiagram(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestTokenize(t *testing.T) {
	path := writeDiagram(t, t.TempDir(), "a.txt", "-a-|\n")
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	last := res.Tokens[len(res.Tokens)-1]
	if last.Kind != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", last.Kind)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
}

func TestParseKeepsDiagnosticsInBag(t *testing.T) {
	path := writeDiagram(t, t.TempDir(), "bad.txt", "-a-\n")
	res, err := Parse(context.Background(), path, 10)
	if err != nil {
		t.Fatalf("Parse returned error for a syntax problem: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected a syntax diagnostic")
	}
}

func TestLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeDiagram(t, dir, "ho.txt", "-+---|\n  +-1--|\n")

	var phases []string
	res, err := Layout(context.Background(), path, LayoutOptions{
		MaxDiagnostics: 10,
		PhaseObserver: func(ev PhaseEvent) {
			if ev.Status == PhaseEnd {
				phases = append(phases, ev.Name)
			}
		},
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.Export.LayerCount != 2 {
		t.Fatalf("expected 2 layers, got %d", res.Export.LayerCount)
	}
	if len(res.Export.HigherOrderLinks) != 1 || res.Export.HigherOrderLinks[0].String() != "(1,0)->(2,1)" {
		t.Fatalf("unexpected links: %v", res.Export.HigherOrderLinks)
	}
	want := []string{"load", "parse", "lower", "links"}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
	}
	if len(res.Timer.Report().Phases) != 4 {
		t.Fatalf("timer missed phases")
	}
}

func TestLayoutSyntaxError(t *testing.T) {
	path := writeDiagram(t, t.TempDir(), "bad.txt", "-a-|\n-b- c|\n")
	res, err := Layout(context.Background(), path, LayoutOptions{MaxDiagnostics: 10})
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *parser.SyntaxError, got %T %v", err, err)
	}
	if se.Line != 2 || se.Code != diag.SynSpaceInLifetime {
		t.Fatalf("unexpected syntax error: %+v", se)
	}
	if res == nil || res.Export != nil || !res.Bag.HasErrors() {
		t.Fatalf("expected bag with errors and no export")
	}
	if errors.Is(err, lower.ErrStructural) {
		t.Fatalf("syntax error must not look structural")
	}
}

func TestLayoutEmissionLinks(t *testing.T) {
	dir := t.TempDir()
	path := writeDiagram(t, dir, "e.txt", "-a-|\n[ map ]\n-b-|\n")
	writeDiagram(t, dir, "e.links.toml", "[[link]]\nfrom = [1, 0]\nto = [1, 2]\n")

	res, err := Layout(context.Background(), path, LayoutOptions{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(res.Export.EmissionLinks) != 1 || res.Export.EmissionLinks[0].String() != "(1,0)->(1,2)" {
		t.Fatalf("unexpected emission links: %v", res.Export.EmissionLinks)
	}
	if res.LinksDigest.IsZero() {
		t.Fatalf("expected sidecar digest")
	}

	res, err = Layout(context.Background(), path, LayoutOptions{NoLinks: true})
	if err != nil || len(res.Export.EmissionLinks) != 0 {
		t.Fatalf("NoLinks should skip the sidecar: %v %v", err, res.Export.EmissionLinks)
	}
}

func TestLayoutInvalidLinks(t *testing.T) {
	dir := t.TempDir()
	path := writeDiagram(t, dir, "e.txt", "-a-|\n")
	writeDiagram(t, dir, "e.links.toml", "[[link]]\nfrom = [0, 0]\nto = [0, 5]\n")

	res, err := Layout(context.Background(), path, LayoutOptions{MaxDiagnostics: 10})
	if !errors.Is(err, project.ErrLinksInvalid) {
		t.Fatalf("expected ErrLinksInvalid, got %v", err)
	}
	first, ok := res.Bag.FirstError()
	if !ok || first.Code != diag.PrjLinksInvalid {
		t.Fatalf("expected PRJ diagnostic, got %+v", res.Bag.Items())
	}
}

func TestLayoutExplicitLinksMustExist(t *testing.T) {
	dir := t.TempDir()
	path := writeDiagram(t, dir, "e.txt", "-a-|\n")
	_, err := Layout(context.Background(), path, LayoutOptions{LinksPath: filepath.Join(dir, "missing.toml")})
	if !errors.Is(err, project.ErrLinksInvalid) {
		t.Fatalf("expected ErrLinksInvalid, got %v", err)
	}
}

func TestLayoutMissingFile(t *testing.T) {
	_, err := Layout(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), LayoutOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeDiagram(t, dir, "c.txt", "-a-|\n")
	writeDiagram(t, dir, "a.txt", "-a-|\n[ x ]\n-b-*\n")
	writeDiagram(t, dir, "b.txt", "-a-\n")
	writeDiagram(t, dir, "notes.md", "not a diagram\n")

	sink := &recordingSink{}
	_, results, err := CheckDir(context.Background(), dir, CheckOptions{Jobs: 2, MaxDiagnostics: 10, Sink: sink})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantNames := []string{"a.txt", "b.txt", "c.txt"}
	wantFailed := []bool{false, true, false}
	for i, r := range results {
		if filepath.Base(r.Path) != wantNames[i] {
			t.Fatalf("result %d: expected %s, got %s", i, wantNames[i], r.Path)
		}
		if r.Failed() != wantFailed[i] {
			t.Fatalf("%s: failed=%v, err=%v", r.Path, r.Failed(), r.Err)
		}
	}
	if len(sink.events) == 0 || sink.events[len(sink.events)-1].Status != StatusDone {
		t.Fatalf("expected a final done event")
	}
}

func TestCheckDirTracesDiagrams(t *testing.T) {
	dir := t.TempDir()
	writeDiagram(t, dir, "a.txt", "-+---|\n  +-1--|\n")
	writeDiagram(t, dir, "b.txt", "-a-\n")

	rec := trace.NewRecorder(trace.LevelDebug, 256, nil, nil, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), rec)
	if _, _, err := CheckDir(ctx, dir, CheckOptions{Jobs: 2}); err != nil {
		t.Fatalf("CheckDir: %v", err)
	}

	layers := map[string][]int{}
	failed := map[string]string{}
	phases := map[string]int{}
	for _, ev := range rec.Snapshot() {
		if ev.Scope == trace.ScopeCommand {
			continue
		}
		if ev.Diagram == "" {
			t.Fatalf("%s %s event without diagram", ev.Kind, ev.Name)
		}
		name := filepath.Base(ev.Diagram)
		switch {
		case ev.Scope == trace.ScopeLayer:
			layers[name] = append(layers[name], ev.Layer)
		case ev.Scope == trace.ScopePhase && ev.Kind == trace.KindEnd:
			phases[name]++
		case ev.Scope == trace.ScopeDiagram && ev.Kind == trace.KindEnd && ev.Err != "":
			failed[name] = ev.Err
		}
	}
	if got := layers["a.txt"]; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("a.txt layer events: %v", got)
	}
	// parse, lower, links
	if phases["a.txt"] != 3 || phases["b.txt"] != 1 {
		t.Fatalf("phase ends: %v", phases)
	}
	if _, ok := failed["b.txt"]; !ok || len(failed) != 1 {
		t.Fatalf("expected only b.txt to fail, got %v", failed)
	}
}

func TestCheckDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeDiagram(t, dir, "a.txt", "-a-b-|\n")
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	opts := CheckOptions{Jobs: 1, MaxDiagnostics: 10, Cache: cache}

	_, first, err := CheckDir(context.Background(), dir, opts)
	if err != nil || first[0].Cached {
		t.Fatalf("first run must miss the cache: %v", err)
	}
	_, second, err := CheckDir(context.Background(), dir, opts)
	if err != nil || !second[0].Cached {
		t.Fatalf("second run must hit the cache: %v", err)
	}
	if second[0].Export.LayerCount != first[0].Export.LayerCount {
		t.Fatalf("cached export differs")
	}

	// изменение sidecar меняет ключ
	writeDiagram(t, dir, "a.links.toml", "[[link]]\nfrom = [1, 0]\nto = [3, 0]\n")
	_, third, err := CheckDir(context.Background(), dir, opts)
	if err != nil || third[0].Cached {
		t.Fatalf("sidecar change must invalidate: %v", err)
	}
	if len(third[0].Export.EmissionLinks) != 1 {
		t.Fatalf("expected emission link from sidecar")
	}
}

func TestCheckDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeDiagram(t, dir, "a.txt", "-a-|\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckDir(ctx, dir, CheckOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	path := writeDiagram(t, t.TempDir(), "a.txt", "-a-|\n")
	res, err := Layout(context.Background(), path, LayoutOptions{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	key := project.DigestBytes([]byte("key"))
	if err := cache.Put(key, &DiskPayload{Path: path, Export: res.Export}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.Export.LayerCount != 1 || out.Path != path {
		t.Fatalf("unexpected payload: %+v", out)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, _ := cache.Get(key, &DiskPayload{}); ok {
		t.Fatalf("expected miss after DropAll")
	}
}
