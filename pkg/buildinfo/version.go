// Package buildinfo exposes build-time version metadata.
//
// The variables are populated via -ldflags at build time:
//
//	go build -ldflags "-X github.com/pkranz/memviz/pkg/buildinfo.Version=v1.2.3"
package buildinfo

import "fmt"

var (
	// Version is the semantic version of the build (e.g. "v0.3.1").
	Version = "dev"
	// Commit is the short git commit hash the binary was built from.
	Commit = "none"
	// Date is the build timestamp in RFC 3339 format.
	Date = "unknown"
)

// String returns a single-line human-readable version string.
func String() string {
	return fmt.Sprintf("memviz %s (commit %s, built %s)", Version, Commit, Date)
}
