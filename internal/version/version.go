// Package version carries build information stamped in via ldflags:
//
//	go build -ldflags "-X github.com/RafaAmft/projeto-backtestv1-sub001/internal/version.Version=1.0.0 \
//	                   -X github.com/RafaAmft/projeto-backtestv1-sub001/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/RafaAmft/projeto-backtestv1-sub001/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	// Version is the semantic version, "dev" outside release builds.
	Version = "dev"

	// Commit is the short git commit hash.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp in ISO 8601.
	BuildTime = "unknown"
)

// String formats the three fields into one line for logs and -version
// style output.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
