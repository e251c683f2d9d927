// Package version holds the build-time version variables for the grce binary.
// The zero values ("dev", "none", "unknown") are used for local builds.
// GoReleaser injects the real values via -ldflags at release time.
package version

import "fmt"

// These variables are overridden by ldflags at release time, e.g.
// -X github.com/pankaj-dahiya-devops/grce-s3-audit/internal/version.Version=v0.1.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the formatted version string printed by grce version.
func Info() string {
	return fmt.Sprintf("grce version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
