package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "3f2a9c1d0e"},
			{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
		},
	}

	t.Run("fills unset", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fromBuildInfo(info)
		if Version != "v0.4.1" || Commit != "3f2a9c1d0e" || Date != "2026-10-01T08:00:00Z" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("ldflags win", func(t *testing.T) {
		reset(t, "v1.0.0", "abc", "today")
		fromBuildInfo(info)
		if Version != "v1.0.0" || Commit != "abc" || Date != "today" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("devel stays dev", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		if Version != "dev" {
			t.Errorf("Version = %s, want dev", Version)
		}
	})
}

func TestShort(t *testing.T) {
	fill() // later calls must not overwrite the values set below

	tests := []struct {
		version, commit, want string
	}{
		{"v1.2.0", "3f2a9c1d0e", "v1.2.0 (3f2a9c1)"},
		{"v1.2.0", "abc", "v1.2.0 (abc)"},
		{"dev", "none", "dev"},
	}
	for _, tt := range tests {
		reset(t, tt.version, tt.commit, "unknown")
		if got := Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	fill()
	reset(t, "v1.2.0", "abc", "2026-10-01")
	got := Template()
	for _, want := range []string{"{{.Name}} version v1.2.0", "commit: abc", "built: 2026-10-01"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() missing %q:\n%s", want, got)
		}
	}
}
