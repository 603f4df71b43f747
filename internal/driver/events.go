package driver

import "time"

// Stage describes a high-level pipeline phase of one diagram.
type Stage string

const (
	// StageLoad reads and normalizes the source file.
	StageLoad Stage = "load"
	// StageParse tokenizes and parses the notation.
	StageParse Stage = "parse"
	// StageLower builds the diagram model from the AST.
	StageLower Stage = "lower"
	// StageLinks derives higher-order links and loads emission links.
	StageLinks Stage = "links"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the diagram is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the diagram is currently processed.
	StatusWorking Status = "working"
	// StatusCached indicates the export was served from the disk cache.
	StatusCached Status = "cached"
	// StatusDone indicates the diagram is done.
	StatusDone Status = "done"
	// StatusError indicates the diagram has errors.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
