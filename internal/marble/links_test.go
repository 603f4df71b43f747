package marble

import (
	"testing"
)

func mustObs(t *testing.T, b *ObservableBuilder) *Observable {
	t.Helper()
	obs, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return obs
}

func parent(t *testing.T, markers ...Position) *Observable {
	t.Helper()
	b := NewObservableBuilder(0, false, "")
	last := Position(0)
	for _, m := range markers {
		b.OnObservableAt(m)
		last = m
	}
	return mustObs(t, b.OnCompletedAt(last+1))
}

func child(t *testing.T, start Position) *Observable {
	t.Helper()
	return mustObs(t, NewObservableBuilder(start, true, "").OnCompletedAt(start+3))
}

func TestLinksNearestChild(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 1))
	d.AddObservable(child(t, 2))
	d.Finalize()

	links := d.HigherOrderLinks()
	if len(links) != 1 {
		t.Fatalf("want 1 link, got %d", len(links))
	}
	want := Link{FromX: 1, FromY: 0, ToX: 2, ToY: 1}
	if links[0] != want {
		t.Fatalf("want %s, got %s", want, links[0])
	}
}

func TestLinksTieKeepsFirstChild(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 5))
	d.AddObservable(child(t, 3))
	d.AddObservable(child(t, 7))
	d.Finalize()

	links := d.HigherOrderLinks()
	if len(links) != 1 || links[0].ToY != 1 || links[0].ToX != 3 {
		t.Fatalf("tie must go to the first child, got %v", links)
	}
}

func TestLinksManyToOne(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 1, 2, 10))
	d.AddObservable(child(t, 2))
	d.Finalize()

	links := d.HigherOrderLinks()
	if len(links) != 3 {
		t.Fatalf("want 3 links, got %d", len(links))
	}
	for _, l := range links {
		if l.ToX != 2 || l.ToY != 1 {
			t.Fatalf("every parent must link to the only child, got %s", l)
		}
	}
	if links[0].FromX != 1 || links[1].FromX != 2 || links[2].FromX != 10 {
		t.Fatalf("links must follow marker order, got %v", links)
	}
}

func TestLinksNoChildren(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 1, 3))
	d.Finalize()
	if n := len(d.HigherOrderLinks()); n != 0 {
		t.Fatalf("want no links without children, got %d", n)
	}
}

func TestLinksChildMarkersAreNotParents(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(mustObs(t, NewObservableBuilder(0, true, "").OnObservableAt(2).OnCompletedAt(4)))
	d.AddObservable(child(t, 2))
	d.Finalize()
	if n := len(d.HigherOrderLinks()); n != 0 {
		t.Fatalf("markers on child layers must not link, got %d", n)
	}
}

func TestLinksRespectBlocks(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 1))
	d.AddOperator(NewOperator(" map "))
	d.AddObservable(child(t, 1))
	d.Finalize()
	if n := len(d.HigherOrderLinks()); n != 0 {
		t.Fatalf("links must not cross an operator, got %d", n)
	}

	d.AddObservable(parent(t, 4))
	if d.Finalized() {
		t.Fatalf("adding a layer must clear the finalized flag")
	}
	d.Finalize()
	links := d.HigherOrderLinks()
	if len(links) != 1 {
		t.Fatalf("want 1 link in the second block, got %v", links)
	}
	want := Link{FromX: 4, FromY: 3, ToX: 1, ToY: 2}
	if links[0] != want {
		t.Fatalf("want %s, got %s", want, links[0])
	}
}

func TestLinksBlocksConcatenateInOrder(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 2))
	d.AddObservable(child(t, 2))
	d.AddOperator(NewOperator("x"))
	d.AddObservable(child(t, 6))
	d.AddObservable(parent(t, 5))
	d.Finalize()

	links := d.HigherOrderLinks()
	want := []Link{
		{FromX: 2, FromY: 0, ToX: 2, ToY: 1},
		{FromX: 5, FromY: 4, ToX: 6, ToY: 3},
	}
	if len(links) != len(want) {
		t.Fatalf("want %d links, got %v", len(want), links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Fatalf("link %d: want %s, got %s", i, want[i], links[i])
		}
	}
}
