package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open trace span. A nil *Span is valid and records nothing,
// which is what Begin returns when tracing is off.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	diagram string
	started time.Time
	layers  int
	detail  string
}

// Begin opens a span below the innermost span of ctx. The returned context
// carries the new span, so nested Begin calls link to it.
func Begin(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	return begin(ctx, scope, name, currentFrame(ctx).diagram)
}

// BeginDiagram opens the span of one diagram; phase and layer events below
// it are tagged with path.
func BeginDiagram(ctx context.Context, path string) (context.Context, *Span) {
	return begin(ctx, ScopeDiagram, "diagram", path)
}

func begin(ctx context.Context, scope Scope, name, diagram string) (context.Context, *Span) {
	t := FromContext(ctx)
	if t.Level() == LevelOff {
		return ctx, nil
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  currentFrame(ctx).spanID,
		scope:   scope,
		name:    name,
		diagram: diagram,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     name,
		Diagram:  diagram,
	})
	return withFrame(ctx, frame{spanID: s.id, diagram: diagram}), s
}

// SetLayers records how many layers the span produced.
func (s *Span) SetLayers(n int) *Span {
	if s != nil {
		s.layers = n
	}
	return s
}

// Note sets the free-form detail of the end event.
func (s *Span) Note(detail string) *Span {
	if s != nil {
		s.detail = detail
	}
	return s
}

// End closes the span. A non-nil err is recorded even at LevelError.
func (s *Span) End(err error) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	ev := &Event{
		Time:     now,
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Diagram:  s.diagram,
		Layers:   s.layers,
		Dur:      dur,
		Detail:   s.detail,
	}
	if err != nil {
		ev.Err = err.Error()
	}
	s.tracer.Emit(ev)
	return dur
}

// ID returns the span ID, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Layer records one lowered layer of the diagram open in ctx.
func Layer(ctx context.Context, index int, kind string) {
	t := FromContext(ctx)
	if t.Level() < LevelDebug {
		return
	}
	f := currentFrame(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    ScopeLayer,
		ParentID: f.spanID,
		Name:     "layer",
		Diagram:  f.diagram,
		Layer:    index,
		Detail:   kind,
	})
}
