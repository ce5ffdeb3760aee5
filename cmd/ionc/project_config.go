package main

import (
	"errors"

	"github.com/spf13/cobra"

	"ionc/internal/backend/cgen"
	"ionc/internal/driver"
	"ionc/internal/project"
)

const cacheApp = "ionc"

// loadOptionalManifest returns nil when no ionc.toml exists above dir.
func loadOptionalManifest(dir string) (*project.Manifest, error) {
	m, err := project.LoadManifest(dir)
	if errors.Is(err, project.ErrNoManifest) {
		return nil, nil
	}
	return m, err
}

func addGenFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("nolinesync", false, "do not emit #line directives")
	cmd.Flags().Bool("fullgen", false, "emit every declaration, ignoring reachability")
	cmd.Flags().Bool("notypeinfo", false, "emit only the typeinfo declarations")
	cmd.Flags().Bool("no-cache", false, "bypass the output cache")
	cmd.Flags().String("timings", "", "print stage timings (text|json)")
	cmd.Flags().Lookup("timings").NoOptDefVal = "text"
}

// genOptions starts from the manifest [gen] section; flags set on the
// command line win.
func genOptions(cmd *cobra.Command, m *project.Manifest) (cgen.Options, error) {
	var opts cgen.Options
	if m != nil {
		opts.NoLineSync = m.Config.Gen.NoLineSync
		opts.FullGen = m.Config.Gen.FullGen
		opts.NoTypeInfo = m.Config.Gen.NoTypeInfo
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"nolinesync", &opts.NoLineSync},
		{"fullgen", &opts.FullGen},
		{"notypeinfo", &opts.NoTypeInfo},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetBool(f.name)
		if err != nil {
			return cgen.Options{}, err
		}
		*f.dst = v
	}
	return opts, nil
}

// openCache honours --no-cache and the manifest [cache] section. Without a
// manifest the user cache directory is used.
func openCache(cmd *cobra.Command, m *project.Manifest) (*driver.OutputCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	if noCache || (m != nil && !m.Config.Cache.Enabled) {
		return nil, nil
	}
	return driver.OpenOutputCache(m.CacheDir(), cacheApp)
}
