package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ionc/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Drop the ionc output cache",
	Long:  "Remove every cached translation unit. The cache directory comes from ionc.toml when one is found, otherwise the user cache directory is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	manifest, err := loadOptionalManifest(baseDir)
	if err != nil {
		return err
	}
	cache, err := driver.OpenOutputCache(manifest.CacheDir(), cacheApp)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop %q: %w", cache.Dir(), err)
	}
	if !quietFlag(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	}
	return nil
}
