package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff     Level = iota // no tracing
	LevelError                // only spans that ended with an error
	LevelDiagram              // commands and diagrams
	LevelPhase                // + pipeline phases
	LevelDebug                // + every layer
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelDiagram:
		return "diagram"
	case LevelPhase:
		return "phase"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "diagram":
		return LevelDiagram, nil
	case "phase":
		return LevelPhase, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|diagram|phase|debug)", s)
	}
}

// deepest returns the most detailed scope recorded at this level.
func (l Level) deepest() Scope {
	switch l {
	case LevelDiagram:
		return ScopeDiagram
	case LevelPhase:
		return ScopePhase
	case LevelDebug:
		return ScopeLayer
	}
	return 0
}

// Allows reports whether ev is recorded at this level. Failed spans pass
// every level except off.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Err != "" {
		return true
	}
	return ev.Scope <= l.deepest()
}
