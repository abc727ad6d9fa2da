// Package version carries build metadata, set with -ldflags "-X ...".
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

var (
	AppName        = "Jukebox"
	AppDescription = "A Discord music bot backed by Lavalink"
	AppVersion     = "dev"
	BuildDate      = ""
	GoVersion      = runtime.Version()
)

// Revision returns the VCS revision embedded by the Go toolchain, if any.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}

// AppFullName renders "Jukebox dev (2026-01-02, go1.26)".
func AppFullName() string {
	var parts []string
	if BuildDate != "" {
		if t, err := time.Parse(time.RFC3339, BuildDate); err == nil {
			parts = append(parts, t.Format("2006-01-02"))
		}
	}
	if rev := Revision(); rev != "" {
		parts = append(parts, rev)
	}
	parts = append(parts, GoVersion)
	return AppName + " " + AppVersion + " (" + strings.Join(parts, ", ") + ")"
}
