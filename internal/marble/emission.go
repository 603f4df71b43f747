package marble

import "fmt"

// Position is a character offset on one notation line.
type Position int

type EmissionKind uint8

const (
	// EmissionItem is a value emitted on the timeline.
	EmissionItem EmissionKind = iota
	// EmissionObservable marks the start of a nested observable.
	EmissionObservable
)

func (k EmissionKind) String() string {
	switch k {
	case EmissionItem:
		return "item"
	case EmissionObservable:
		return "observable"
	default:
		return fmt.Sprintf("EmissionKind(%d)", uint8(k))
	}
}

// Emission is either an item or an observable marker.
type Emission struct {
	Kind  EmissionKind `json:"kind" msgpack:"kind"`
	Value string       `json:"value,omitempty" msgpack:"value,omitempty"`
	At    Position     `json:"at" msgpack:"at"`
}

func NewItem(value string, at Position) Emission {
	return Emission{Kind: EmissionItem, Value: value, At: at}
}

func NewObservableMarker(at Position) Emission {
	return Emission{Kind: EmissionObservable, At: at}
}

func (e Emission) IsMarker() bool {
	return e.Kind == EmissionObservable
}

func (e Emission) String() string {
	if e.IsMarker() {
		return fmt.Sprintf("+@%d", e.At)
	}
	return fmt.Sprintf("%s@%d", e.Value, e.At)
}
