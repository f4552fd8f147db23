// Package version records what the binary was built from. The variables
// are plain strings so -ldflags can inject release values; coloring is a
// display concern and happens in Pretty.
package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Overridable at build time, e.g.
//
//	go build -ldflags "-X graft/internal/version.Version=1.2.3"
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is the commit hash the binary was built from.
	GitCommit = ""

	// GitMessage is the subject line of that commit.
	GitMessage = ""

	// BuildDate is the build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Pretty renders Version with each semver component in its own color. A
// pre-release suffix stays unpainted, and a string that does not split
// into three components comes back untouched.
func Pretty() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	patch, suffix, found := strings.Cut(parts[2], "-")
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(patch)
	if found {
		out += "-" + suffix
	}
	return out
}

// Commit returns the recorded commit hash, falling back to the VCS
// revision stamped into the module build info when -ldflags was skipped.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
