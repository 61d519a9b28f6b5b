// Package version provides build-time version information.
package version

import "fmt"

// Set with -ldflags "-X github.com/javanstorm/fusionctl/internal/version.Version=..."
// and likewise for Commit and BuildDate.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String renders the version block printed by "fusionctl version".
func String() string {
	return fmt.Sprintf("fusionctl %s\n  Commit:     %s\n  Build Date: %s\n", Version, Commit, BuildDate)
}
