// Package misc keeps build metadata in a single place so it could be set from
// the build system with ldflags and queried from anywhere without import
// cycles.
package misc

import "runtime/debug"

var (
	appName = "ptx"
	version = "0.0.0-dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision recorded in the binary. Value set with
// ldflags wins over build info.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
