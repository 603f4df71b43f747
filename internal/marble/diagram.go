package marble

import "fmt"

type LayerKind uint8

const (
	LayerObservable LayerKind = iota
	LayerOperator
)

func (k LayerKind) String() string {
	switch k {
	case LayerObservable:
		return "observable"
	case LayerOperator:
		return "operator"
	default:
		return fmt.Sprintf("LayerKind(%d)", uint8(k))
	}
}

// Layer holds exactly one of Observable or Operator, selected by Kind.
type Layer struct {
	Kind       LayerKind   `json:"kind" msgpack:"kind"`
	Observable *Observable `json:"observable,omitempty" msgpack:"observable,omitempty"`
	Operator   *Operator   `json:"operator,omitempty" msgpack:"operator,omitempty"`
}

// Link is a geometric edge; X is a position, Y a layer index.
type Link struct {
	FromX int `json:"from_x" msgpack:"from_x"`
	FromY int `json:"from_y" msgpack:"from_y"`
	ToX   int `json:"to_x" msgpack:"to_x"`
	ToY   int `json:"to_y" msgpack:"to_y"`
}

func (l Link) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d)", l.FromX, l.FromY, l.ToX, l.ToY)
}

// Diagram owns ordered layers and the higher-order links derived from them.
// Not safe for concurrent mutation.
type Diagram struct {
	layers    []Layer
	links     []Link
	finalized bool
}

func NewDiagram() *Diagram {
	return &Diagram{
		layers: make([]Layer, 0, 8),
	}
}

// AddObservable appends an observable layer. Previously derived links are
// marked stale; Finalize must be called again.
func (d *Diagram) AddObservable(o *Observable) {
	d.layers = append(d.layers, Layer{Kind: LayerObservable, Observable: o})
	d.finalized = false
}

// AddOperator appends an operator layer.
func (d *Diagram) AddOperator(op *Operator) {
	d.layers = append(d.layers, Layer{Kind: LayerOperator, Operator: op})
	d.finalized = false
}

// Finalize derives the higher-order links from the current layers.
func (d *Diagram) Finalize() {
	d.links = DeriveHigherOrderLinks(d.layers)
	d.finalized = true
}

// Finalized reports whether HigherOrderLinks reflects the current layers.
func (d *Diagram) Finalized() bool {
	return d.finalized
}

// Layers returns the layers in source order. READONLY.
func (d *Diagram) Layers() []Layer {
	return d.layers
}

func (d *Diagram) Len() int {
	return len(d.layers)
}

// HigherOrderLinks returns the links computed by the last Finalize. READONLY.
func (d *Diagram) HigherOrderLinks() []Link {
	return d.links
}
