package marble

import (
	"errors"
	"fmt"
)

type Completion uint8

const (
	Continued Completion = iota
	Completed
	Errored
)

func (c Completion) String() string {
	switch c {
	case Continued:
		return "continued"
	case Completed:
		return "completed"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("Completion(%d)", uint8(c))
	}
}

// Observable is one timeline. At most one of completed/errored holds, and
// when one does End equals its position.
type Observable struct {
	Start      Position   `json:"start" msgpack:"start"`
	End        Position   `json:"end" msgpack:"end"`
	IsChild    bool       `json:"is_child" msgpack:"is_child"`
	Label      string     `json:"label,omitempty" msgpack:"label,omitempty"`
	Items      []Emission `json:"items" msgpack:"items"`
	Completion Completion `json:"completion" msgpack:"completion"`
}

// Completed returns the completion position, if the observable completed.
func (o *Observable) Completed() (Position, bool) {
	if o.Completion == Completed {
		return o.End, true
	}
	return 0, false
}

// Errored returns the error position, if the observable errored.
func (o *Observable) Errored() (Position, bool) {
	if o.Completion == Errored {
		return o.End, true
	}
	return 0, false
}

// Markers returns the positions of observable markers in item order.
func (o *Observable) Markers() []Position {
	var out []Position
	for _, it := range o.Items {
		if it.IsMarker() {
			out = append(out, it.At)
		}
	}
	return out
}

var (
	errNoEnd        = errors.New("observable end was never set")
	errEndTwice     = errors.New("observable end already set")
	errItemAfterEnd = errors.New("emission after the end of the observable")
	errOutOfOrder   = errors.New("emission position goes backwards")
)

// ObservableBuilder assembles an Observable in timeline order and refuses
// to produce one whose end was never set.
type ObservableBuilder struct {
	obs    Observable
	ended  bool
	failed error
}

func NewObservableBuilder(start Position, isChild bool, label string) *ObservableBuilder {
	return &ObservableBuilder{
		obs: Observable{
			Start:   start,
			End:     start,
			IsChild: isChild,
			Label:   label,
			Items:   make([]Emission, 0, 4),
		},
	}
}

func (b *ObservableBuilder) push(e Emission) *ObservableBuilder {
	if b.failed != nil {
		return b
	}
	if b.ended {
		b.failed = fmt.Errorf("%w at %d", errItemAfterEnd, e.At)
		return b
	}
	if n := len(b.obs.Items); n > 0 && e.At < b.obs.Items[n-1].At {
		b.failed = fmt.Errorf("%w: %d after %d", errOutOfOrder, e.At, b.obs.Items[n-1].At)
		return b
	}
	b.obs.Items = append(b.obs.Items, e)
	return b
}

func (b *ObservableBuilder) OnNextAt(value string, at Position) *ObservableBuilder {
	return b.push(NewItem(value, at))
}

func (b *ObservableBuilder) OnObservableAt(at Position) *ObservableBuilder {
	return b.push(NewObservableMarker(at))
}

func (b *ObservableBuilder) finish(c Completion, at Position) *ObservableBuilder {
	if b.failed != nil {
		return b
	}
	if b.ended {
		b.failed = errEndTwice
		return b
	}
	b.obs.Completion = c
	b.obs.End = at
	b.ended = true
	return b
}

func (b *ObservableBuilder) OnCompletedAt(at Position) *ObservableBuilder {
	return b.finish(Completed, at)
}

func (b *ObservableBuilder) OnErrorAt(at Position) *ObservableBuilder {
	return b.finish(Errored, at)
}

func (b *ObservableBuilder) OnContinuedAt(at Position) *ObservableBuilder {
	return b.finish(Continued, at)
}

// Build returns the finished observable.
func (b *ObservableBuilder) Build() (*Observable, error) {
	if b.failed != nil {
		return nil, b.failed
	}
	if !b.ended {
		return nil, errNoEnd
	}
	obs := b.obs
	obs.Items = append([]Emission(nil), b.obs.Items...)
	return &obs, nil
}
