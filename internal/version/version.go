package version

import "fmt"

// Overridden at build time via -ldflags.
var (
	Version = "0.1.0-dev"
	Commit  = "unknown"
)

func String() string {
	return fmt.Sprintf("growthai %s (%s)", Version, Commit)
}
