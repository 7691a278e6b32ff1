// Package version reports the build of hmpanel.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/deespe/fhem-HOMEMODE/internal/version.Version=v0.3.0".
// Unset values are filled from the VCS stamp of the build.
var (
	Version = ""
	Commit  = ""
)

// Info describes a build
type Info struct {
	Version   string
	Commit    string
	GoVersion string
	Modified  bool
}

func init() {
	info := Get()
	Version, Commit = info.Version, info.Commit
}

// Get returns the build info, preferring ldflags over the VCS stamp
func Get() Info {
	info := Info{Version: Version, Commit: Commit}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromBuildInfo(info, bi)
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	info.GoVersion = bi.GoVersion
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	var revision, stamp string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			stamp = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}

	if info.Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		info.Commit = revision
		if info.Modified {
			info.Commit += "-dirty"
		}
	}
	// vcs.time is RFC 3339, the date is enough for a dev build
	if info.Version == "" && len(stamp) >= 10 {
		info.Version = "dev-" + strings.ReplaceAll(stamp[:10], "-", "")
	}
	return info
}

// Full returns the version with commit and Go version
func Full() string {
	info := Get()
	s := fmt.Sprintf("%s (commit: %s)", info.Version, info.Commit)
	if info.GoVersion != "" {
		s += ", " + info.GoVersion
	}
	return s
}
