package app

// Build information populated via -ldflags at build time.
var (
	// BuildVersion is reported by /health and the version command.
	BuildVersion = "2.0.0"
	// BuildCommit is the VCS commit SHA associated with the build.
	BuildCommit = "unknown"
	// BuildDate is the ISO-8601 timestamp of the build.
	BuildDate = "unknown"
)
