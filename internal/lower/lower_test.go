package lower

import (
	"errors"
	"testing"

	"dooble/internal/ast"
	"dooble/internal/marble"
	"dooble/internal/parser"
	"dooble/internal/source"
)

func build(t *testing.T, text string) *marble.Diagram {
	t.Helper()
	b, file, err := parser.ParseString("test.txt", text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	d, err := Build(b, file)
	if err != nil {
		t.Fatalf("build %q: %v", text, err)
	}
	return d
}

func onlyObservable(t *testing.T, d *marble.Diagram) *marble.Observable {
	t.Helper()
	layers := d.Layers()
	if len(layers) != 1 || layers[0].Kind != marble.LayerObservable {
		t.Fatalf("want a single observable layer, got %+v", layers)
	}
	return layers[0].Observable
}

func TestBuildSimpleObservable(t *testing.T) {
	obs := onlyObservable(t, build(t, "-a-|"))
	if obs.Start != 0 || obs.IsChild || obs.Label != "" {
		t.Fatalf("header: %+v", obs)
	}
	if len(obs.Items) != 1 || obs.Items[0] != marble.NewItem("a", 1) {
		t.Fatalf("items: want [a@1], got %v", obs.Items)
	}
	if at, ok := obs.Completed(); !ok || at != 3 || obs.End != 3 {
		t.Fatalf("completion: want 3, got %d,%v end=%d", at, ok, obs.End)
	}
}

func TestBuildObservablePositions(t *testing.T) {
	tests := []struct {
		input   string
		start   marble.Position
		child   bool
		label   string
		items   []marble.Emission
		end     marble.Position
		outcome marble.Completion
	}{
		{"  +-1--|", 2, true, "", []marble.Emission{marble.NewItem("1", 4)}, 7, marble.Completed},
		{"x-ab-*", 0, false, "x", []marble.Emission{marble.NewItem("ab", 2)}, 5, marble.Errored},
		{"abc>", 0, false, "a", []marble.Emission{marble.NewItem("bc", 1)}, 3, marble.Continued},
		{"-+-+|", 0, false, "", []marble.Emission{marble.NewObservableMarker(1), marble.NewObservableMarker(3)}, 4, marble.Completed},
		{"+-+-|", 0, true, "", []marble.Emission{marble.NewObservableMarker(2)}, 4, marble.Completed},
		{"   |", 3, false, "", nil, 3, marble.Completed},
		{"10-20>", 0, false, "", []marble.Emission{marble.NewItem("10", 0), marble.NewItem("20", 3)}, 5, marble.Continued},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			obs := onlyObservable(t, build(t, tt.input))
			if obs.Start != tt.start || obs.IsChild != tt.child || obs.Label != tt.label {
				t.Fatalf("header: want start=%d child=%v label=%q, got %+v", tt.start, tt.child, tt.label, obs)
			}
			if len(obs.Items) != len(tt.items) {
				t.Fatalf("items: want %v, got %v", tt.items, obs.Items)
			}
			for i := range tt.items {
				if obs.Items[i] != tt.items[i] {
					t.Fatalf("item %d: want %s, got %s", i, tt.items[i], obs.Items[i])
				}
			}
			if obs.End != tt.end || obs.Completion != tt.outcome {
				t.Fatalf("end: want %d %s, got %d %s", tt.end, tt.outcome, obs.End, obs.Completion)
			}
		})
	}
}

func TestBuildOperator(t *testing.T) {
	d := build(t, "[ map ]")
	layers := d.Layers()
	if len(layers) != 1 || layers[0].Operator == nil {
		t.Fatalf("want one operator layer, got %+v", layers)
	}
	op := layers[0].Operator
	if op.Text != "map" || op.Start != 0 || op.End != marble.Position(1+len(" map ")) {
		t.Fatalf("operator: %+v", op)
	}
}

func TestBuildHigherOrderLink(t *testing.T) {
	d := build(t, "-+---|\n  +-1--|\n")
	if !d.Finalized() {
		t.Fatalf("Build must finalize the diagram")
	}
	links := d.HigherOrderLinks()
	want := marble.Link{FromX: 1, FromY: 0, ToX: 2, ToY: 1}
	if len(links) != 1 || links[0] != want {
		t.Fatalf("want [%s], got %v", want, links)
	}
}

func TestBuildLeadingPlusMakesParentAChild(t *testing.T) {
	d := build(t, "+-+-|\n  +-1--|\n")
	for i, layer := range d.Layers() {
		if layer.Observable == nil || !layer.Observable.IsChild {
			t.Fatalf("layer %d: want a child observable, got %+v", i, layer)
		}
	}
	if links := d.HigherOrderLinks(); len(links) != 0 {
		t.Fatalf("two child layers have no parent markers, got %v", links)
	}
}

func TestBuildBlockBoundary(t *testing.T) {
	d := build(t, "-+---|\n[ switch ]\n +-1-|\n")
	if n := len(d.HigherOrderLinks()); n != 0 {
		t.Fatalf("links must not cross an operator, got %d", n)
	}
}

func TestBuildDeterministic(t *testing.T) {
	const text = "a-+-+--|\n +-1|\n    +-2-3>\n[ mergeAll ]\n-1-2-3-*\n"
	first := build(t, text)
	for range 3 {
		again := build(t, text)
		if len(again.Layers()) != len(first.Layers()) || len(again.HigherOrderLinks()) != len(first.HigherOrderLinks()) {
			t.Fatalf("non-deterministic build")
		}
		for i, l := range again.HigherOrderLinks() {
			if l != first.HigherOrderLinks()[i] {
				t.Fatalf("link %d differs: %s vs %s", i, l, first.HigherOrderLinks()[i])
			}
		}
	}
}

func TestBuildStructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *ast.Builder, file ast.FileID)
	}{
		{"missing layer node", func(b *ast.Builder, file ast.FileID) {
			b.PushLayer(file, ast.LayerID(42))
		}},
		{"empty item", func(b *ast.Builder, file ast.FileID) {
			id := b.Layers.NewObservable(0, source.Span{}, ast.KindNone, "", source.Span{},
				[]ast.Lifetime{{Kind: ast.LifetimeItem, Text: ""}},
				ast.CompletionCompleted, source.Span{}, 1, source.Span{})
			b.PushLayer(file, id)
		}},
		{"invalid completion", func(b *ast.Builder, file ast.FileID) {
			id := b.Layers.NewObservable(0, source.Span{}, ast.KindNone, "", source.Span{},
				nil, ast.CompletionInvalid, source.Span{}, 1, source.Span{})
			b.PushLayer(file, id)
		}},
		{"missing payload", func(b *ast.Builder, file ast.FileID) {
			id := b.Layers.New(ast.LayerOperator, source.Span{}, 1, ast.NoPayloadID)
			b.PushLayer(file, id)
		}},
		{"empty description", func(b *ast.Builder, file ast.FileID) {
			id := b.Layers.NewOperator("", source.Span{}, source.Span{}, source.Span{}, 1, source.Span{})
			b.PushLayer(file, id)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder(ast.Hints{})
			file := b.NewFile(source.Span{})
			ok := b.Layers.NewObservable(0, source.Span{}, ast.KindNone, "", source.Span{},
				nil, ast.CompletionCompleted, source.Span{}, 1, source.Span{})
			b.PushLayer(file, ok)
			tt.setup(b, file)

			d, err := Build(b, file)
			if d != nil {
				t.Fatalf("no partial diagram may be returned")
			}
			if !errors.Is(err, ErrStructural) {
				t.Fatalf("want ErrStructural, got %v", err)
			}
			var se *StructuralError
			if !errors.As(err, &se) || se.Layer != 1 {
				t.Fatalf("want StructuralError at layer 1, got %#v", err)
			}
		})
	}
}

func TestBuildUnknownFile(t *testing.T) {
	if _, err := Build(ast.NewBuilder(ast.Hints{}), ast.FileID(3)); !errors.Is(err, ErrStructural) {
		t.Fatalf("want ErrStructural, got %v", err)
	}
	if _, err := Build(nil, ast.NoFileID); !errors.Is(err, ErrStructural) {
		t.Fatalf("want ErrStructural for nil builder, got %v", err)
	}
}
