package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dooble/internal/diagfmt"
	"dooble/internal/driver"
	"dooble/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.txt|directory>",
	Short: "Check marble diagrams for errors",
	Long:  `Check runs the full pipeline on one diagram or every *.txt diagram in a directory and reports diagnostics only`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("no-cache", false, "disable the on-disk export cache")
	checkCmd.Flags().Bool("drop-cache", false, "clear the on-disk export cache before checking")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := settingInt(cmd, "jobs", cliConfig.Check.Jobs)
	if err != nil {
		return err
	}
	maxDiagnostics, err := settingInt(cmd, "max-diagnostics", cliConfig.Check.MaxDiagnostics)
	if err != nil {
		return err
	}
	mode, err := parseProgressMode(settingString(cmd, "ui", cliConfig.Check.UI))
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	dropCache, err := cmd.Flags().GetBool("drop-cache")
	if err != nil {
		return fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	baseDir, files := filepath.Dir(target), []string{target}
	if st.IsDir() {
		baseDir = target
		if files, err = driver.ListDiagrams(target); err != nil {
			return err
		}
	}

	opts := driver.CheckOptions{Jobs: jobs, MaxDiagnostics: maxDiagnostics}
	cache, err := openCheckCache(cliConfig.Check.Cache && !noCache, dropCache)
	switch {
	case dropCache && err != nil:
		return err
	case err != nil:
		if !quiet {
			fmt.Fprintf(os.Stderr, "warning: disk cache disabled: %v\n", err)
		}
	default:
		opts.Cache = cache
	}

	var (
		fs      *source.FileSet
		results []driver.CheckResult
	)
	if mode.showProgress(format, quiet, len(files), isTerminal(os.Stdout)) {
		fs, results, err = runCheckWithUI(cmd.Context(), "checking "+target, baseDir, files, opts)
	} else {
		fs, results, err = driver.CheckFiles(cmd.Context(), baseDir, files, opts)
	}
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	failed, cached := 0, 0
	for i := range results {
		if results[i].Failed() {
			failed++
		}
		if results[i].Cached {
			cached++
		}
	}

	switch format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: true,
		}
		for _, r := range results {
			if r.Bag != nil && r.Bag.Len() > 0 {
				diagfmt.Pretty(os.Stdout, r.Bag, fs, prettyOpts)
			}
		}
		if !quiet {
			fmt.Fprintf(os.Stdout, "checked %d diagrams: %d ok, %d failed (%d cached)\n",
				len(results), len(results)-failed, failed, cached)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, IncludeNotes: true}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return err
		}
	}

	if showTimings {
		_ = printCheckTimings(os.Stderr, results)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams have errors", failed, len(results))
	}
	return nil
}

// openCheckCache opens the export cache when enabled. drop clears it first,
// even when caching itself is off for this run.
func openCheckCache(enabled, drop bool) (*driver.DiskCache, error) {
	if !enabled && !drop {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("dooble")
	if err != nil {
		return nil, err
	}
	if drop {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to drop cache %s: %w", cache.Dir(), err)
		}
	}
	if !enabled {
		return nil, nil
	}
	return cache, nil
}
