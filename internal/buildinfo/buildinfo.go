// Package buildinfo holds version information set at link time, e.g.
// -ldflags "-X github.com/popsearch/popsearch/internal/buildinfo.Version=1.2.0".
package buildinfo

var (
	Version    = "dev"
	Codename   = "Spark"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
