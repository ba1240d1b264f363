package version

import (
	"runtime/debug"
	"testing"

	"dvf/internal/platform/testkit"
)

func TestInfo_NoVCS(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &readBuildInfo, func() (*debug.BuildInfo, bool) { return nil, false })

	bi := Info()
	if got, want := bi.String(), "dvf-pipeline dev (commit none, built unknown)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestInfo_CommitSources(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &readBuildInfo, func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
			{Key: "vcs.revision", Value: "0123456789abcdef"},
		}}, true
	})

	if got := Info().Commit; got != "0123456" {
		t.Fatalf("vcs commit = %q", got)
	}

	testkit.Swap(t, &commit, "cafe123")
	if got := Info().Commit; got != "cafe123" {
		t.Fatalf("ldflags commit should win, got %q", got)
	}
}
