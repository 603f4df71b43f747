package ast

import (
	"dooble/internal/source"
)

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
		return "unknown"
	}
}

// Layer is one physical line of the notation. Payload indexes the
// per-kind arena selected by Kind.
type Layer struct {
	Kind    LayerKind
	Span    source.Span
	Line    uint32 // 1-based
	Payload PayloadID
}

type Layers struct {
	Arena       *Arena[Layer]
	Observables *Arena[ObservableLayer]
	Operators   *Arena[OperatorLayer]
	Lifetimes   *Arena[Lifetime]
}

// NewLayers creates the layer arenas. Lifetime elements usually outnumber
// layers, so they get their own hint.
func NewLayers(capHint, lifetimeHint uint) *Layers {
	if capHint == 0 {
		capHint = 1 << 5
	}
	if lifetimeHint == 0 {
		lifetimeHint = capHint * 4
	}
	return &Layers{
		Arena:       NewArena[Layer](capHint),
		Observables: NewArena[ObservableLayer](capHint),
		Operators:   NewArena[OperatorLayer](capHint),
		Lifetimes:   NewArena[Lifetime](lifetimeHint),
	}
}

func (l *Layers) New(kind LayerKind, span source.Span, line uint32, payloadID PayloadID) LayerID {
	return LayerID(l.Arena.Allocate(Layer{
		Kind:    kind,
		Span:    span,
		Line:    line,
		Payload: payloadID,
	}))
}

func (l *Layers) Get(id LayerID) *Layer {
	return l.Arena.Get(uint32(id))
}
