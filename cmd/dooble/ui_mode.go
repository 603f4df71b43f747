package main

import (
	"fmt"
	"strings"
)

// progressMode is the --ui setting of `dooble check`.
type progressMode uint8

const (
	progressAuto progressMode = iota
	progressOn
	progressOff
)

func (m progressMode) String() string {
	switch m {
	case progressOn:
		return "on"
	case progressOff:
		return "off"
	default:
		return "auto"
	}
}

func parseProgressMode(value string) (progressMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return progressAuto, nil
	case "on":
		return progressOn, nil
	case "off":
		return progressOff, nil
	default:
		return progressAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// showProgress decides whether check draws the progress view. JSON output
// and --quiet never get it; auto wants a terminal and more than one diagram.
func (m progressMode) showProgress(format string, quiet bool, diagrams int, tty bool) bool {
	if quiet || format != "pretty" || diagrams == 0 {
		return false
	}
	switch m {
	case progressOn:
		return true
	case progressOff:
		return false
	default:
		return tty && diagrams > 1
	}
}
