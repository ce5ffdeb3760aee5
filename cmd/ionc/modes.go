package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI: quiet runs never get the progress view.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	if quiet {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// colorEnabled resolves --color for output going to f and keeps fatih/color
// (used by the version string and diagnostics) in sync with it.
func colorEnabled(cmd *cobra.Command, f *os.File) bool {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		value = "auto"
	}
	var on bool
	switch strings.ToLower(value) {
	case "on":
		on = true
	case "off":
		on = false
	default:
		on = isTerminal(f)
	}
	color.NoColor = !on
	return on
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
