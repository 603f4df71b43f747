package testkit

import (
	"testing"

	"dooble/internal/lower"
	"dooble/internal/marble"
	"dooble/internal/parser"
	"dooble/internal/source"
)

var samples = []string{
	"-a-|\n",
	"-+---|\n  +-1--|\n",
	"--a-+-b-+-->\n   +-x-|\n       +-y-*\n",
	"-a-|\n[ map ]\n-b-c-|\n",
	"-+-|\n[ flatten ]\n  +-1-|\n",
	"x-a-b-|\n",
}

func TestSamplesSatisfyInvariants(t *testing.T) {
	for _, src := range samples {
		fs := source.NewFileSet()
		id := fs.AddVirtual("sample.txt", []byte(src))
		builder, fileID, err := parser.ParseSource(t.Context(), fs, id)
		if err != nil {
			t.Fatalf("%q: parse: %v", src, err)
		}
		if err := CheckSpanInvariants(builder, fileID, fs.Get(id)); err != nil {
			t.Fatalf("%q: spans: %v", src, err)
		}
		d, err := lower.Build(builder, fileID)
		if err != nil {
			t.Fatalf("%q: lower: %v", src, err)
		}
		if err := CheckDiagramInvariants(d); err != nil {
			t.Fatalf("%q: diagram: %v", src, err)
		}
	}
}

func TestCheckDiagramInvariantsRejects(t *testing.T) {
	unfinalized := marble.NewDiagram()
	if err := CheckDiagramInvariants(unfinalized); err == nil {
		t.Fatalf("expected error for unfinalized diagram")
	}

	bad := marble.NewDiagram()
	bad.AddObservable(&marble.Observable{
		Start: 0,
		End:   2,
		Items: []marble.Emission{marble.NewItem("a", 3)},
	})
	bad.Finalize()
	if err := CheckDiagramInvariants(bad); err == nil {
		t.Fatalf("expected error for item after end")
	}
}
