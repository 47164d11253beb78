// Package misc keeps build time information.
package misc

import "runtime/debug"

// Set with -ldflags "-X chapterdoc/misc.version=... -X chapterdoc/misc.gitHash=...".
var (
	version = "dev"
	gitHash = ""
)

const appName = "chapterdoc"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash either injected at build time or recorded
// by the toolchain in build info.
func GetGitHash() string {
	if gitHash != "" {
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
