package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.10",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-03-14T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := fromBuildInfo(Info{}, bi)
	if got.Commit != "0123456-dirty" {
		t.Errorf("Commit = %s, want 0123456-dirty", got.Commit)
	}
	if got.Version != "dev-20260314" {
		t.Errorf("Version = %s, want dev-20260314", got.Version)
	}

	got = fromBuildInfo(Info{Version: "v1.0.0", Commit: "abc"}, bi)
	if got.Version != "v1.0.0" || got.Commit != "abc" {
		t.Errorf("ldflags should win, got %+v", got)
	}
}

func TestFull(t *testing.T) {
	if !strings.Contains(Full(), "commit:") {
		t.Errorf("Full() = %s", Full())
	}
}
