// Package version exposes build metadata injected at link time.
package version

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, commit, and build date.
func Info() (version, commit, date string) {
	return Version, GitCommit, BuildDate
}
