package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ionc/internal/driver"
)

func checkTimingsFormat(format string) error {
	switch format {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid --timings value %q (expected text|json)", format)
	}
}

// describeUnit renders the one-line summary printed after a unit is built.
func describeUnit(res *driver.UnitResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> %s (%d decls, %d defs", res.Unit.Name, res.Unit.Output, res.Stats.Decls, res.Stats.Defs)
	if res.Stats.Headers > 0 {
		fmt.Fprintf(&sb, ", %d headers", res.Stats.Headers)
	}
	if res.Cached {
		sb.WriteString(", cached")
	}
	sb.WriteString(")")
	return sb.String()
}

// printTimings writes timings to stderr, keeping stdout for generated text.
func printTimings(cmd *cobra.Command, format string, results []driver.UnitResult) error {
	out := cmd.ErrOrStderr()
	switch format {
	case "text":
		_, err := fmt.Fprint(out, driver.MergeTimings(results).Summary())
		return err
	case "json":
		data, err := driver.TimingsJSON(results)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return nil
	}
}
