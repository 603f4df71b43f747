package trace

import (
	"errors"
	"io"
	"sync"
)

const defaultRingSize = 4096

// Recorder keeps the last events in a ring for crash dumps and, when it has
// a writer, streams every event as it arrives.
type Recorder struct {
	mu     sync.Mutex
	level  Level
	seq    uint64
	ring   []Event
	head   int
	full   bool
	w      io.Writer
	closer io.Closer
	format Format
	chrome chromeState
	werr   error
}

// NewRecorder creates a Recorder. w may be nil for a ring-only recorder;
// closer, if set, is closed by Close.
func NewRecorder(level Level, ringSize int, w io.Writer, closer io.Closer, format Format) *Recorder {
	if ringSize <= 0 {
		ringSize = defaultRingSize
	}
	if format == FormatAuto {
		format = FormatText
	}
	return &Recorder{
		level:  level,
		ring:   make([]Event, ringSize),
		w:      w,
		closer: closer,
		format: format,
	}
}

func (r *Recorder) Level() Level { return r.level }

// Emit stores ev and writes it to the stream. Write errors are kept and
// returned by Close; tracing never fails the run.
func (r *Recorder) Emit(ev *Event) {
	if !r.level.Allows(ev) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stored := *ev
	stored.Seq = r.seq
	r.ring[r.head] = stored
	r.head = (r.head + 1) % len(r.ring)
	if r.head == 0 {
		r.full = true
	}

	if r.w == nil || r.werr != nil {
		return
	}
	var data []byte
	if r.format == FormatChrome {
		data = r.chrome.event(&stored)
	} else {
		data = FormatEvent(&stored, r.format)
	}
	if _, err := r.w.Write(data); err != nil {
		r.werr = err
	}
}

// Snapshot returns the buffered events, oldest first.
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]Event(nil), r.ring[:r.head]...)
	}
	out := make([]Event, 0, len(r.ring))
	out = append(out, r.ring[r.head:]...)
	return append(out, r.ring[:r.head]...)
}

// Dump writes the buffered events as text.
func (r *Recorder) Dump(w io.Writer) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(formatText(&ev)); err != nil {
			return err
		}
	}
	return nil
}

// Close finishes the stream and closes the output file, if any.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w != nil && r.werr == nil && r.format == FormatChrome {
		if _, err := r.w.Write(r.chrome.footer()); err != nil {
			r.werr = err
		}
	}
	var closeErr error
	if r.closer != nil {
		closeErr = r.closer.Close()
		r.closer = nil
	}
	r.w = nil
	return errors.Join(r.werr, closeErr)
}
