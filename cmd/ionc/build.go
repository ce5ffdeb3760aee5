package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ionc/internal/driver"
	"ionc/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Generate every unit of an ionc project",
	Long:  "Generate C for every [[unit]] listed in ionc.toml, in parallel.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().IntP("jobs", "j", 0, "max concurrent units (0 = [build].jobs or GOMAXPROCS)")
	addGenFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	uiValue, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	heartbeat, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
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

	manifest, err := project.LoadManifest(dir)
	if err != nil {
		return err
	}
	units := manifest.Units()
	if len(units) == 0 {
		return fmt.Errorf("%s: no [[unit]] entries", manifest.Path)
	}
	opts, err := genOptions(cmd, manifest)
	if err != nil {
		return err
	}
	cache, err := openCache(cmd, manifest)
	if err != nil {
		return err
	}
	jobs := manifest.Config.Build.Jobs
	if cmd.Flags().Changed("jobs") {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return err
		}
	}

	req := driver.BuildOptions{
		GenOptions: driver.GenOptions{Gen: opts, Cache: cache},
		Jobs:       jobs,
		Heartbeat:  heartbeat,
	}
	quiet := quietFlag(cmd)
	started := time.Now()
	var results []driver.UnitResult
	if shouldUseTUI(mode, quiet) {
		results, err = runBuildWithUI(cmd.Context(), "ionc build", units, req)
	} else {
		results, err = driver.BuildAll(cmd.Context(), units, req)
	}

	if !quiet {
		out := cmd.OutOrStdout()
		for i := range results {
			if results[i].Err == nil && results[i].RunID != "" {
				fmt.Fprintln(out, describeUnit(&results[i]))
			}
		}
		if err == nil {
			fmt.Fprintf(out, "built %d units in %.1f ms\n", len(results), toMillis(time.Since(started)))
		}
	}
	if tErr := printTimings(cmd, timings, results); tErr != nil && err == nil {
		err = tErr
	}
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
