// Package version reports the build the service was made from.
package version

import "fmt"

// Set with -ldflags "-X dice-reader/internal/version.Version=..."
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build as "0.1.0 (abc1234, 2026-01-02T15:04:05Z)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, shortCommit(GitCommit), BuildTime)
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
