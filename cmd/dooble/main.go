package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dooble/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dooble",
	Short: "Marble diagram notation toolkit",
	Long: `dooble parses text marble diagrams, builds the timeline model
(observables, operators, higher-order links) and exports it for renderers`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(*cobra.Command, []string) { teardownRun() },
}

// main registers subcommands and persistent flags, then executes the root
// command. Any returned error exits with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("config", "", "path to dooble.toml (default: search upward from the working directory)")

	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|diagram|phase|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	pf.Int("trace-ring-size", 4096, "events kept in memory for the panic dump")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	err := rootCmd.Execute()
	teardownRun()
	if err != nil {
		os.Exit(1)
	}
}

// setupRun loads dooble.toml and starts tracing and profiling for any subcommand.
func setupRun(cmd *cobra.Command, _ []string) error {
	if err := loadCLIConfig(cmd); err != nil {
		return err
	}
	if err := applyColorMode(cmd); err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanupTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return err
	}
	cleanups = append(cleanups, stopProfiling, cleanupTracing)
	return nil
}

var cleanups []func()

// teardownRun runs registered cleanups once, in reverse order.
func teardownRun() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
