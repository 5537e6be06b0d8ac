// Package version carries build identification, injected at link time via
// -ldflags "-X".
package version

import "fmt"

var (
	// Version is the release tag; "dev" for local builds.
	Version = "dev"
	// GitSHA identifies the exact commit.
	GitSHA = "unknown"
)

// String renders the build identification for logs and reports.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitSHA)
}
