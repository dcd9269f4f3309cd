// Package misc provides small helpers shared across the program.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "styler"

// GetAppName returns the program name used for logging and temp files.
func GetAppName() string {
	return appName
}

var buildInfo = sync.OnceValues(func() (version string, hash string) {
	version, hash = "devel", "unknown"
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if len(bi.Main.Version) != 0 && bi.Main.Version != "(devel)" {
		version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 8 {
			hash = s.Value[:8]
		}
	}
	return
})

// GetVersion returns the module version recorded in build info.
func GetVersion() string {
	v, _ := buildInfo()
	return v
}

// GetGitHash returns the short VCS revision recorded in build info.
func GetGitHash() string {
	_, h := buildInfo()
	return h
}
