package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1 // span start
	KindEnd                   // span end, carries Dur
	KindPoint                 // instant event, e.g. one lowered layer
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope orders events from the whole command down to a single layer.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // check, layout, parse
	ScopeDiagram                  // одна диаграмма
	ScopePhase                    // load, parse, lower, links
	ScopeLayer                    // один слой нотации
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeDiagram:
		return "diagram"
	case ScopePhase:
		return "phase"
	case ScopeLayer:
		return "layer"
	default:
		return "unknown"
	}
}

// Event is a single trace record. Diagram is inherited from the enclosing
// diagram span, so phase and layer events know which file they belong to.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string        // check, diagram, parse, lower, layer ...
	Diagram  string        // путь диаграммы, "" для событий команды
	Layer    int           // индекс слоя, только для ScopeLayer
	Layers   int           // число слоёв, известное к концу span
	Dur      time.Duration // только для KindEnd
	Detail   string
	Err      string
}
