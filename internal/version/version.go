// Package version provides build-time version information.
package version

// These variables are set at build time via -ldflags.
var (
	// Version is the semantic version (e.g., "0.3.0")
	Version = "dev"

	// GitCommit is the short git commit hash
	GitCommit = "unknown"
)
