package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dooble/internal/diagfmt"
	"dooble/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.txt",
	Short: "Parse a marble diagram and output its AST",
	Long:  `Parse turns every line of a marble diagram into an observable or operator layer and prints the resulting syntax tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := settingInt(cmd, "max-diagnostics", cliConfig.Check.MaxDiagnostics)
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	printDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		err = diagfmt.FormatASTPretty(os.Stdout, result.Builder, result.FileID, result.FileSet)
	case "json":
		err = diagfmt.FormatASTJSON(os.Stdout, result.Builder, result.FileID)
	case "tree":
		err = diagfmt.FormatASTTree(os.Stdout, result.Builder, result.FileID, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: syntax errors", filePath)
	}
	return nil
}
