package main

import (
	"fmt"
	"io"

	"dooble/internal/driver"
	"dooble/internal/observ"
)

// printTimings writes a phase table (or one JSON line when asJSON is set).
func printTimings(out io.Writer, path string, timer *observ.Timer, asJSON bool) error {
	if out == nil || timer == nil {
		return nil
	}
	if asJSON {
		data, err := driver.NewTimingPayload("layout", path, timer).JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	}
	_, err := io.WriteString(out, timer.Summary())
	return err
}

// printCheckTimings prints one headline per diagram that went through the pipeline.
func printCheckTimings(out io.Writer, results []driver.CheckResult) error {
	for _, r := range results {
		if r.Timing == nil {
			continue
		}
		payload := driver.TimingPayload{
			Kind:    "check",
			Path:    r.Path,
			TotalMS: r.Timing.TotalMS,
			Phases:  r.Timing.Phases,
		}
		if _, err := fmt.Fprintln(out, payload.Headline()); err != nil {
			return err
		}
	}
	return nil
}
