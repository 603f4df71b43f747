// Package trace records what the pipeline did with each diagram.
//
// Spans nest command, diagram, phase and layer:
//
//	ctx, span := trace.BeginDiagram(ctx, path)
//	_, phase := trace.Begin(ctx, trace.ScopePhase, "lower")
//	phase.SetLayers(n).End(err)
//	span.End(err)
//
// The tracer travels in the context (WithTracer / FromContext). With the
// level off Begin returns a nil span and nothing is allocated per event.
// A Recorder always keeps the last events in a ring, dumped on panic, and
// optionally streams them as text, NDJSON or Chrome trace JSON:
//
//	dooble check --trace=trace.json --trace-level=phase diagrams/
package trace
