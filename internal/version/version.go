package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the ionc CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is a trimmed snapshot of the build variables.
type Info struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
}

// Current reads the build variables; an empty Version reads as "dev".
func Current() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:    v,
		GitCommit:  strings.TrimSpace(GitCommit),
		GitMessage: strings.TrimSpace(GitMessage),
		BuildDate:  strings.TrimSpace(BuildDate),
	}
}

// Pretty colors major, minor and patch; anything after the patch number
// (pre-release, build metadata) is kept as is.
func (i Info) Pretty() string {
	parts := strings.SplitN(i.Version, ".", 3)
	if len(parts) != 3 {
		return i.Version
	}
	patch, rest := parts[2], ""
	if idx := strings.IndexAny(patch, "-+"); idx >= 0 {
		patch, rest = patch[:idx], patch[idx:]
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(patch) + rest
}
