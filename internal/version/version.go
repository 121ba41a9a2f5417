// Package version holds build metadata injected at link time.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the version, commit and build time on one line.
func String() string {
	return fmt.Sprintf("stablepose %s (%s, built %s)", Version, GitSHA, BuildTime)
}
