package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ionc/internal/driver"
	"ionc/internal/project"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <snapshot>",
	Short: "Generate C for one program snapshot",
	Long:  "Generate a C translation unit from a resolved program snapshot. ionc.toml, when present, supplies defaults for the generator switches and the cache.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGen,
}

func init() {
	genCmd.Flags().StringP("output", "o", "", "output file (\"-\" for stdout, default: <snapshot>.c)")
	addGenFlags(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetString("timings")
	if err != nil {
		return err
	}
	if err := checkTimingsFormat(timings); err != nil {
		return err
	}

	manifest, err := loadOptionalManifest(filepath.Dir(input))
	if err != nil {
		return err
	}
	opts, err := genOptions(cmd, manifest)
	if err != nil {
		return err
	}
	cache, err := openCache(cmd, manifest)
	if err != nil {
		return err
	}

	toStdout := output == "-"
	switch {
	case toStdout:
		output = ""
	case output == "":
		output = outputNameFor(input)
	}
	unit := project.Unit{
		Name:   strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		Input:  input,
		Output: output,
	}
	res, err := driver.GenerateUnit(cmd.Context(), unit, driver.GenOptions{Gen: opts, Cache: cache})
	if err != nil {
		return err
	}

	if toStdout {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), res.Text); err != nil {
			return err
		}
	} else if !quietFlag(cmd) {
		fmt.Fprintln(cmd.OutOrStdout(), describeUnit(res))
	}
	return printTimings(cmd, timings, []driver.UnitResult{*res})
}

// outputNameFor replaces the snapshot extension with .c.
func outputNameFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".c"
}
