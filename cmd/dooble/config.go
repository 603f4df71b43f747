package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dooble/internal/project"
)

// cliConfig holds dooble.toml merged over defaults; flags override it per setting.
var cliConfig = project.DefaultConfig()

func loadCLIConfig(cmd *cobra.Command) error {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, findErr := project.FindConfig(".")
		if findErr != nil {
			return findErr
		}
		if !ok {
			cliConfig = project.DefaultConfig()
			return nil
		}
		path = found
	}
	cfg, err := project.LoadConfig(path)
	if err != nil {
		return err
	}
	cliConfig = cfg
	return nil
}

// settingString returns the flag value when it was set explicitly, otherwise
// the value from dooble.toml.
func settingString(cmd *cobra.Command, name, fromConfig string) string {
	if f := cmd.Flag(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return fromConfig
}

func settingInt(cmd *cobra.Command, name string, fromConfig int) (int, error) {
	f := cmd.Flag(name)
	if f == nil || !f.Changed {
		return fromConfig, nil
	}
	var v int
	if _, err := fmt.Sscan(f.Value.String(), &v); err != nil {
		return 0, fmt.Errorf("invalid --%s value: %w", name, err)
	}
	return v, nil
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func currentColorMode(cmd *cobra.Command) colorMode {
	mode, err := readColorMode(settingString(cmd, "color", cliConfig.Output.Color))
	if err != nil {
		return colorAuto
	}
	return mode
}

// useColor решает, красить ли вывод в f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	switch currentColorMode(cmd) {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(f)
	}
}

// applyColorMode validates --color and syncs fatih/color's global switch with it.
func applyColorMode(cmd *cobra.Command) error {
	mode, err := readColorMode(settingString(cmd, "color", cliConfig.Output.Color))
	if err != nil {
		return err
	}
	switch mode {
	case colorOn:
		color.NoColor = false
	case colorOff:
		color.NoColor = true
	}
	return nil
}
