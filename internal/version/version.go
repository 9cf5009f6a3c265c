// Package version holds worldmatch build metadata, injected via ldflags:
//
//	-X github.com/kailas-cloud/worldmatch/internal/version.Version=v1.2.0
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs and health output.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
