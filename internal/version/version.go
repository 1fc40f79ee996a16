// Package version exposes the build metadata stamped into the binary.
package version

import "runtime"

// Overridden at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3 ...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the payload served by the version endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get combines the stamped variables with the runtime's Go version.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}
