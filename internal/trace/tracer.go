package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// Options configures New.
type Options struct {
	Level Level
	// Path receives the event stream; "-" is stderr, "" keeps events in
	// the ring only.
	Path     string
	Output   io.Writer // overrides Path
	Format   Format
	RingSize int
}

// New returns Nop when the level is off, otherwise a Recorder.
func New(opts Options) (Tracer, error) {
	if opts.Level == LevelOff {
		return Nop, nil
	}
	format := opts.Format
	if format == FormatAuto {
		format = formatForPath(opts.Path)
	}
	w, closer, err := openOutput(opts)
	if err != nil {
		return nil, err
	}
	return NewRecorder(opts.Level, opts.RingSize, w, closer, format), nil
}

// formatForPath picks a format by extension: .ndjson, .json, otherwise text.
func formatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	default:
		return FormatText
	}
}

func openOutput(opts Options) (io.Writer, io.Closer, error) {
	switch {
	case opts.Output != nil:
		return opts.Output, nil, nil
	case opts.Path == "":
		return nil, nil, nil
	case opts.Path == "-":
		return os.Stderr, nil, nil
	}
	f, err := os.Create(opts.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, f, nil
}
