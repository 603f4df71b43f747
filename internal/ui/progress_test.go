package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"dooble/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check", []string{"a.txt", "b.txt"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.txt", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" {
		t.Fatalf("expected parsing, got %q", m.items[0].status)
	}
	m.applyEvent(driver.Event{File: "a.txt", Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.txt", Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "unknown.txt", Status: driver.StatusError})

	view := m.View()
	for _, want := range []string{"a.txt", "b.txt", "done", "cached"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	got := truncate("diagrams/very-long-name.txt", 10)
	if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 10 {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("a.txt", 10); got != "a.txt" {
		t.Fatalf("short values must stay intact, got %q", got)
	}
}
