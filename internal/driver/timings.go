package driver

import (
	"encoding/json"
	"fmt"

	"dooble/internal/observ"
)

// TimingPayload is the machine-readable form of an observ.Timer report.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// NewTimingPayload snapshots timer for path.
func NewTimingPayload(kind, path string, timer *observ.Timer) TimingPayload {
	if kind == "" {
		kind = "layout"
	}
	payload := TimingPayload{Kind: kind, Path: path}
	if timer == nil {
		return payload
	}
	report := timer.Report()
	payload.TotalMS = report.TotalMS
	payload.Phases = report.Phases
	return payload
}

// Headline is the one-line human summary, e.g. "timings (layout): total 0.42 ms".
func (p TimingPayload) Headline() string {
	msg := fmt.Sprintf("timings (%s): total %.2f ms", p.Kind, p.TotalMS)
	if p.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, p.Path)
	}
	return msg
}

func (p TimingPayload) JSON() ([]byte, error) {
	return json.Marshal(p)
}
