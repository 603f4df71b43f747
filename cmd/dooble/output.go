package main

import (
	"os"

	"github.com/spf13/cobra"

	"dooble/internal/diag"
	"dooble/internal/diagfmt"
	"dooble/internal/source"
)

// printDiagnostics выводит диагностики в stderr, если они есть.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	opts := diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   2,
		ShowNotes: true,
	}
	diagfmt.Pretty(os.Stderr, bag, fs, opts)
}
