package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var processStart = time.Now()

// Format is the encoding of a trace stream.
type Format uint8

const (
	FormatAuto   Format = iota // по расширению файла
	FormatText                 // human-readable text
	FormatNDJSON               // one JSON object per line
	FormatChrome               // chrome://tracing / Perfetto JSON
)

// ParseFormat converts a flag value to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "chrome":
		return FormatChrome, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson|chrome)", s)
	}
}

// FormatEvent encodes a single event as text or NDJSON. Chrome output needs
// stream state and is produced by Recorder.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Seq     uint64 `json:"seq"`
	Time    string `json:"time"`
	Kind    string `json:"kind"`
	Scope   string `json:"scope"`
	Name    string `json:"name"`
	Span    uint64 `json:"span,omitempty"`
	Parent  uint64 `json:"parent,omitempty"`
	Diagram string `json:"diagram,omitempty"`
	Layer   *int   `json:"layer,omitempty"`
	Layers  int    `json:"layers,omitempty"`
	DurUS   int64  `json:"dur_us,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Err     string `json:"error,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	j := jsonEvent{
		Seq:     ev.Seq,
		Time:    ev.Time.Format(time.RFC3339Nano),
		Kind:    ev.Kind.String(),
		Scope:   ev.Scope.String(),
		Name:    ev.Name,
		Span:    ev.SpanID,
		Parent:  ev.ParentID,
		Diagram: ev.Diagram,
		Layers:  ev.Layers,
		DurUS:   ev.Dur.Microseconds(),
		Detail:  ev.Detail,
		Err:     ev.Err,
	}
	if ev.Scope == ScopeLayer {
		layer := ev.Layer
		j.Layer = &layer
	}
	data, _ := json.Marshal(j)
	return append(data, '\n')
}

// formatText: [elapsed] indent arrow name diagram#layer dur (detail) !error
func formatText(ev *Event) []byte {
	var sb strings.Builder

	elapsed := float64(ev.Time.Sub(processStart).Microseconds()) / 1000
	fmt.Fprintf(&sb, "[%9.3fms] ", elapsed)
	if ev.Scope > ScopeCommand {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeCommand)))
	}
	switch ev.Kind {
	case KindBegin:
		sb.WriteString("→ ")
	case KindEnd:
		sb.WriteString("← ")
	default:
		sb.WriteString("• ")
	}
	sb.WriteString(ev.Name)
	if ev.Diagram != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.Diagram)
	}
	if ev.Scope == ScopeLayer {
		sb.WriteString("#")
		sb.WriteString(strconv.Itoa(ev.Layer))
	}
	if ev.Kind == KindEnd {
		sb.WriteByte(' ')
		sb.WriteString(ev.Dur.Round(time.Microsecond).String())
	}
	if ev.Layers > 0 {
		fmt.Fprintf(&sb, " [%d layers]", ev.Layers)
	}
	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(ev.Detail)
		sb.WriteString(")")
	}
	if ev.Err != "" {
		sb.WriteString(" !")
		sb.WriteString(ev.Err)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

// chromeState writes the traceEvents array. Each diagram gets its own
// lane (tid) so its spans nest in the viewer; command spans use lane 0.
type chromeState struct {
	started bool
	lanes   map[string]uint64
}

type chromeEvent struct {
	Name  string         `json:"name"`
	Cat   string         `json:"cat"`
	Phase string         `json:"ph"`
	TS    int64          `json:"ts"`
	PID   int            `json:"pid"`
	TID   uint64         `json:"tid"`
	Scope string         `json:"s,omitempty"`
	Args  map[string]any `json:"args,omitempty"`
}

func (c *chromeState) lane(diagram string) uint64 {
	if diagram == "" {
		return 0
	}
	if c.lanes == nil {
		c.lanes = make(map[string]uint64)
	}
	id, ok := c.lanes[diagram]
	if !ok {
		id = uint64(len(c.lanes) + 1)
		c.lanes[diagram] = id
	}
	return id
}

func (c *chromeState) event(ev *Event) []byte {
	ce := chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		TS:   ev.Time.Sub(processStart).Microseconds(),
		PID:  1,
		TID:  c.lane(ev.Diagram),
	}
	switch ev.Kind {
	case KindBegin:
		ce.Phase = "B"
	case KindEnd:
		ce.Phase = "E"
	default:
		ce.Phase = "i"
		ce.Scope = "t"
	}
	args := map[string]any{}
	if ev.Diagram != "" {
		args["diagram"] = ev.Diagram
	}
	if ev.Scope == ScopeLayer {
		args["layer"] = ev.Layer
	}
	if ev.Layers > 0 {
		args["layers"] = ev.Layers
	}
	if ev.Detail != "" {
		args["detail"] = ev.Detail
	}
	if ev.Err != "" {
		args["error"] = ev.Err
	}
	if len(args) > 0 {
		ce.Args = args
	}
	data, _ := json.Marshal(ce)

	prefix := ",\n"
	if !c.started {
		prefix = "{\"traceEvents\":[\n"
		c.started = true
	}
	return append([]byte(prefix), data...)
}

func (c *chromeState) footer() []byte {
	if !c.started {
		c.started = true
		return []byte("{\"traceEvents\":[]}\n")
	}
	return []byte("\n]}\n")
}
