package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"dooble/internal/ast"
	"dooble/internal/marble"
	"dooble/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span points into sf and stays within its content
// 2) every layer span is non-empty and fully contained in file.Span
// 3) layers appear in source order without overlapping
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	// 2) layer spans within file span; 3) ordering
	var prevEnd uint32
	for i, id := range f.Layers {
		layer := b.Layers.Get(id)
		if layer == nil {
			return fmt.Errorf("nil layer for id=%d", id)
		}
		sp := layer.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("layer %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("layer %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("layer %d: span %v is outside file span %v", i, sp, f.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("layer %d: span %v overlaps previous layer ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}

// CheckDiagramInvariants validates a finalized diagram:
// observables keep their items ordered inside [Start, End]; operators start
// at 0; every higher-order link joins a root marker to a child start inside
// one block; there is at most one link per root marker.
func CheckDiagramInvariants(d *marble.Diagram) error {
	if d == nil {
		return fmt.Errorf("nil diagram")
	}
	if !d.Finalized() {
		return fmt.Errorf("diagram is not finalized")
	}
	layers := d.Layers()
	block := make([]int, len(layers))
	blockID := 0
	markers := 0
	for y, layer := range layers {
		switch layer.Kind {
		case marble.LayerOperator:
			if layer.Operator == nil || layer.Observable != nil {
				return fmt.Errorf("layer %d: operator layer with wrong payload", y)
			}
			if layer.Operator.Start != 0 || layer.Operator.End <= layer.Operator.Start {
				return fmt.Errorf("layer %d: operator range [%d,%d]", y, layer.Operator.Start, layer.Operator.End)
			}
			blockID++
			block[y] = -1
		case marble.LayerObservable:
			if layer.Observable == nil || layer.Operator != nil {
				return fmt.Errorf("layer %d: observable layer with wrong payload", y)
			}
			if err := checkObservable(layer.Observable); err != nil {
				return fmt.Errorf("layer %d: %w", y, err)
			}
			if !layer.Observable.IsChild {
				markers += len(layer.Observable.Markers())
			}
			block[y] = blockID
		default:
			return fmt.Errorf("layer %d: unknown kind %v", y, layer.Kind)
		}
	}

	links := d.HigherOrderLinks()
	if len(links) > markers {
		return fmt.Errorf("%d links for %d root markers", len(links), markers)
	}
	seen := make(map[[2]int]bool, len(links))
	for _, l := range links {
		if err := checkLink(layers, block, l); err != nil {
			return fmt.Errorf("link %s: %w", l, err)
		}
		from := [2]int{l.FromX, l.FromY}
		if seen[from] {
			return fmt.Errorf("link %s: marker linked twice", l)
		}
		seen[from] = true
	}
	return nil
}

func checkObservable(o *marble.Observable) error {
	if o.End < o.Start {
		return fmt.Errorf("end %d before start %d", o.End, o.Start)
	}
	switch o.Completion {
	case marble.Continued, marble.Completed, marble.Errored:
	default:
		return fmt.Errorf("unknown completion %v", o.Completion)
	}
	_, completed := o.Completed()
	_, errored := o.Errored()
	if completed && errored {
		return fmt.Errorf("both completed and errored")
	}
	prev := o.Start
	for i, it := range o.Items {
		if it.At < prev {
			return fmt.Errorf("item %d at %d goes backwards (prev %d)", i, it.At, prev)
		}
		if it.At > o.End {
			return fmt.Errorf("item %d at %d after end %d", i, it.At, o.End)
		}
		if it.IsMarker() && it.Value != "" {
			return fmt.Errorf("marker %d carries a value %q", i, it.Value)
		}
		prev = it.At
	}
	return nil
}

func checkLink(layers []marble.Layer, block []int, l marble.Link) error {
	if l.FromY < 0 || l.FromY >= len(layers) || l.ToY < 0 || l.ToY >= len(layers) {
		return fmt.Errorf("layer out of range")
	}
	if block[l.FromY] < 0 || block[l.FromY] != block[l.ToY] {
		return fmt.Errorf("crosses a block boundary")
	}
	parent := layers[l.FromY].Observable
	child := layers[l.ToY].Observable
	if parent.IsChild || !child.IsChild {
		return fmt.Errorf("must go from a root to a child observable")
	}
	hasMarker := false
	for _, at := range parent.Markers() {
		if int(at) == l.FromX {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		return fmt.Errorf("no marker at x=%d", l.FromX)
	}
	if int(child.Start) != l.ToX {
		return fmt.Errorf("child starts at %d, not %d", child.Start, l.ToX)
	}
	return nil
}
