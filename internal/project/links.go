package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dooble/internal/marble"
)

// ErrLinksInvalid is the sentinel wrapped by every *LinksError.
var ErrLinksInvalid = errors.New("invalid emission links")

// LinksError points at the offending [[link]] entry (0-based, -1 for the file as a whole).
type LinksError struct {
	Path   string
	Index  int
	Reason string
}

func (e *LinksError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: link #%d: %s", e.Path, e.Index+1, e.Reason)
}

func (e *LinksError) Unwrap() error { return ErrLinksInvalid }

type linksFile struct {
	Link []linkEntry `toml:"link"`
}

type linkEntry struct {
	From []int `toml:"from"`
	To   []int `toml:"to"`
}

// SidecarPath returns "<dir>/<base>.links.toml" for a diagram path.
func SidecarPath(diagramPath string) string {
	ext := filepath.Ext(diagramPath)
	return strings.TrimSuffix(diagramPath, ext) + ".links.toml"
}

// LoadLinks reads emission links from a TOML sidecar and checks them against
// the diagram's layer count. A missing file yields (nil, false, nil).
func LoadLinks(path string, layerCount int) (links []marble.Link, found bool, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to stat %q: %w", path, statErr)
	}

	var cfg linksFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, true, &LinksError{Path: path, Index: -1, Reason: "failed to parse TOML: " + err.Error()}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, true, &LinksError{Path: path, Index: -1, Reason: "unknown key " + undecoded[0].String()}
	}

	links = make([]marble.Link, 0, len(cfg.Link))
	for i, entry := range cfg.Link {
		from, reason := checkEndpoint("from", entry.From, layerCount)
		if reason != "" {
			return nil, true, &LinksError{Path: path, Index: i, Reason: reason}
		}
		to, reason := checkEndpoint("to", entry.To, layerCount)
		if reason != "" {
			return nil, true, &LinksError{Path: path, Index: i, Reason: reason}
		}
		links = append(links, marble.Link{FromX: from[0], FromY: from[1], ToX: to[0], ToY: to[1]})
	}
	return links, true, nil
}

func checkEndpoint(name string, xy []int, layerCount int) ([2]int, string) {
	switch {
	case len(xy) == 0:
		return [2]int{}, fmt.Sprintf("missing %q", name)
	case len(xy) != 2:
		return [2]int{}, fmt.Sprintf("%q must be [x, y], got %d values", name, len(xy))
	case xy[0] < 0 || xy[1] < 0:
		return [2]int{}, fmt.Sprintf("%q must be non-negative, got %v", name, xy)
	case xy[1] >= layerCount:
		return [2]int{}, fmt.Sprintf("%q layer %d out of range (diagram has %d layers)", name, xy[1], layerCount)
	}
	return [2]int{xy[0], xy[1]}, ""
}
