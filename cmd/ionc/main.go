// Package main implements the ionc CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ionc/internal/diag"
	"ionc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "ionc",
	Short:         "Ion C back end",
	Long:          `ionc turns resolved Ion program snapshots into C translation units`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		flushTrace, err := setupTracing(cmd)
		if err != nil {
			stopProfiles()
			return err
		}
		traceCleanup = func() {
			flushTrace()
			stopProfiles()
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		runTraceCleanup()
	},
}

// traceCleanup flushes the tracer and profiles installed by
// PersistentPreRunE.
var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI for batch builds (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval during batch builds (0 = off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")
}

// main executes the root command. Errors are printed as diagnostics and
// exit with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		runTraceCleanup()
		printError(rootCmd, err)
		os.Exit(1)
	}
}

// maxPrinted bounds the diagnostics printed for one failed command.
const maxPrinted = 100

// printError renders err as sorted diagnostic lines. Joined errors (batch
// builds) print one entry each.
func printError(cmd *cobra.Command, err error) {
	bag := diag.NewBag(maxPrinted)
	collectErrors(diag.BagReporter{Bag: bag}, err)
	bag.Sort()
	bag.Dedup()
	fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatShort(bag.Items(), colorEnabled(cmd, os.Stderr)))
}

func collectErrors(r diag.Reporter, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collectErrors(r, e)
		}
		return
	}
	var de *diag.Error
	if !errors.As(err, &de) || de == nil {
		diag.ReportErr(r, err)
		return
	}
	msg := de.Message
	// обёртки (имя юнита) остаются префиксом сообщения
	if full := err.Error(); strings.HasSuffix(full, de.Error()) {
		msg = strings.TrimSuffix(full, de.Error()) + msg
	}
	if de.Err != nil {
		msg += ": " + de.Err.Error()
	}
	r.Report(de.Code, de.Severity, de.Primary, msg, de.Notes)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
