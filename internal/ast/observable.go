package ast

import (
	"fmt"

	"fortio.org/safecast"

	"dooble/internal/source"
)

// KindMarker is the optional kind prefix of an observable.
type KindMarker uint8

const (
	KindNone  KindMarker = iota
	KindChild            // '+'
	KindLabel            // одна строчная буква
)

func (k KindMarker) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindChild:
		return "child"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

type LifetimeKind uint8

const (
	LifetimeTimespan LifetimeKind = iota
	LifetimeItem
)

func (k LifetimeKind) String() string {
	switch k {
	case LifetimeTimespan:
		return "timespan"
	case LifetimeItem:
		return "item"
	default:
		return "unknown"
	}
}

// Lifetime is a single timespan or item of an observable.
type Lifetime struct {
	Kind LifetimeKind
	Span source.Span
	Text string // "-" for timespans
}

type CompletionKind uint8

const (
	CompletionInvalid   CompletionKind = iota
	CompletionContinued                // >
	CompletionCompleted                // |
	CompletionErrored                  // *
)

func (k CompletionKind) String() string {
	switch k {
	case CompletionContinued:
		return ">"
	case CompletionCompleted:
		return "|"
	case CompletionErrored:
		return "*"
	default:
		return "?"
	}
}

type ObservableLayer struct {
	Skip           uint32 // число ведущих пробелов
	SkipSpan       source.Span
	Kind           KindMarker
	KindText       string
	KindSpan       source.Span
	LifetimeStart  LifetimeID
	LifetimeCount  uint32
	Completion     CompletionKind
	CompletionSpan source.Span
	Span           source.Span
}

// Observable returns the observable payload of a layer.
func (l *Layers) Observable(id LayerID) (*ObservableLayer, bool) {
	layer := l.Arena.Get(uint32(id))
	if layer == nil || layer.Kind != LayerObservable {
		return nil, false
	}
	obs := l.Observables.Get(uint32(layer.Payload))
	return obs, obs != nil
}

// CollectLifetimes returns a copy of the observable's lifetime elements in
// source order.
func (l *Layers) CollectLifetimes(obs *ObservableLayer) []Lifetime {
	if obs == nil || obs.LifetimeCount == 0 || !obs.LifetimeStart.IsValid() {
		return nil
	}
	out := make([]Lifetime, 0, obs.LifetimeCount)
	base := uint32(obs.LifetimeStart)
	for off := range obs.LifetimeCount {
		if lt := l.Lifetimes.Get(base + off); lt != nil {
			out = append(out, *lt)
		}
	}
	return out
}

func (l *Layers) allocateLifetimes(lifetimes []Lifetime) (start LifetimeID, count uint32) {
	count, err := safecast.Conv[uint32](len(lifetimes))
	if err != nil {
		panic(fmt.Errorf("lifetime count overflow: %w", err))
	}
	for idx, lt := range lifetimes {
		id := LifetimeID(l.Lifetimes.Allocate(lt))
		if idx == 0 {
			start = id
		}
	}
	return start, count
}

// NewObservable allocates an observable layer and its lifetime elements.
func (l *Layers) NewObservable(
	skip uint32,
	skipSpan source.Span,
	kind KindMarker,
	kindText string,
	kindSpan source.Span,
	lifetimes []Lifetime,
	completion CompletionKind,
	completionSpan source.Span,
	line uint32,
	span source.Span,
) LayerID {
	start, count := l.allocateLifetimes(lifetimes)
	payload := PayloadID(l.Observables.Allocate(ObservableLayer{
		Skip:           skip,
		SkipSpan:       skipSpan,
		Kind:           kind,
		KindText:       kindText,
		KindSpan:       kindSpan,
		LifetimeStart:  start,
		LifetimeCount:  count,
		Completion:     completion,
		CompletionSpan: completionSpan,
		Span:           span,
	}))
	return l.New(LayerObservable, span, line, payload)
}
