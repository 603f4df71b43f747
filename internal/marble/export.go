package marble

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ExportVersion is bumped whenever the export layout changes.
const ExportVersion = 1

// Export is the hand-off record for a renderer. EmissionLinks are supplied
// by the caller and passed through untouched.
type Export struct {
	Version          int     `json:"version" msgpack:"version"`
	Source           string  `json:"source,omitempty" msgpack:"source,omitempty"`
	LayerCount       int     `json:"layer_count" msgpack:"layer_count"`
	Layers           []Layer `json:"layers" msgpack:"layers"`
	HigherOrderLinks []Link  `json:"higher_order_links" msgpack:"higher_order_links"`
	EmissionLinks    []Link  `json:"emission_links" msgpack:"emission_links"`
}

// NewExport snapshots a finalized diagram.
func NewExport(d *Diagram, source string, emissionLinks []Link) (*Export, error) {
	if !d.Finalized() {
		return nil, fmt.Errorf("export %s: diagram is not finalized", source)
	}
	layers := append([]Layer(nil), d.Layers()...)
	hol := append([]Link{}, d.HigherOrderLinks()...)
	el := append([]Link{}, emissionLinks...)
	return &Export{
		Version:          ExportVersion,
		Source:           source,
		LayerCount:       len(layers),
		Layers:           layers,
		HigherOrderLinks: hol,
		EmissionLinks:    el,
	}, nil
}

// JSON encodes the export as indented JSON.
func (e *Export) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// Msgpack encodes the export as msgpack.
func (e *Export) Msgpack() ([]byte, error) {
	return msgpack.Marshal(e)
}

func UnmarshalExportMsgpack(data []byte) (*Export, error) {
	var e Export
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	if e.Version != ExportVersion {
		return nil, fmt.Errorf("decode export: unsupported version %d", e.Version)
	}
	return &e, nil
}
