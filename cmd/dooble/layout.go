package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dooble/internal/diagfmt"
	"dooble/internal/driver"
	"dooble/internal/marble"
	"dooble/internal/trace"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] file.txt",
	Short: "Build the diagram model and export it",
	Long: `Layout parses a marble diagram, builds the finalized model with its
higher-order links, attaches emission links from the <file>.links.toml sidecar
and writes the export for a renderer`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|grid|json|msgpack)")
	layoutCmd.Flags().String("links", "", "emission links TOML (default: <file>.links.toml when present)")
	layoutCmd.Flags().Bool("no-links", false, "ignore any emission links sidecar")
	layoutCmd.Flags().StringP("out", "o", "", "write the export to this file instead of stdout")
}

func runLayout(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	filePath := args[0]

	format := settingString(cmd, "format", cliConfig.Output.Format)
	linksPath, err := cmd.Flags().GetString("links")
	if err != nil {
		return fmt.Errorf("failed to get links flag: %w", err)
	}
	noLinks, err := cmd.Flags().GetBool("no-links")
	if err != nil {
		return fmt.Errorf("failed to get no-links flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := settingInt(cmd, "max-diagnostics", cliConfig.Check.MaxDiagnostics)
	if err != nil {
		return err
	}
	if noLinks && linksPath != "" {
		return errors.New("--links and --no-links cannot be used together")
	}

	ctx, span := trace.Begin(cmd.Context(), trace.ScopeCommand, "layout")
	result, err := driver.Layout(ctx, filePath, driver.LayoutOptions{
		MaxDiagnostics: maxDiagnostics,
		LinksPath:      linksPath,
		NoLinks:        noLinks,
	})
	span.End(err)
	if result != nil {
		printDiagnostics(cmd, result.Bag, result.FileSet)
		if showTimings {
			_ = printTimings(os.Stderr, filePath, result.Timer, format == "json")
		}
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		return writeExportFile(outPath, result.Export, format)
	}
	return writeExport(os.Stdout, result.Export, format)
}

func writeExportFile(path string, exp *marble.Export, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return writeAndClose(f, exp, format)
}

// writeAndClose reports the Close error when the write itself succeeded.
func writeAndClose(wc io.WriteCloser, exp *marble.Export, format string) error {
	werr := writeExport(wc, exp, format)
	if cerr := wc.Close(); cerr != nil && werr == nil {
		return fmt.Errorf("failed to close export: %w", cerr)
	}
	return werr
}

func writeExport(w io.Writer, exp *marble.Export, format string) error {
	switch format {
	case "pretty":
		return diagfmt.FormatDiagramPretty(w, exp)
	case "grid":
		return diagfmt.FormatDiagramGrid(w, exp)
	case "json":
		data, err := exp.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "msgpack":
		data, err := exp.Msgpack()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
