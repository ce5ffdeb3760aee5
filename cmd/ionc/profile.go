package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ionc/internal/prof"
)

// setupProfiling starts the profiles named by the persistent flags. The
// returned cleanup is safe to call more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Heap, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(errOut, "failed to write profiles: %v\n", err)
		}
	}, nil
}
