// Package version identifies the running pipeline build
package version

import (
	"fmt"
	"runtime/debug"
)

// Service is the name the pipeline reports to logs, Postgres and ClickHouse
const Service = "dvf-pipeline"

// Set with -ldflags "-X dvf/internal/core/version.version=v0.1.0 -X ...commit=abcd -X ...date=2026-10-01"
var (
	version = "dev"
	commit  = ""
	date    = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// BuildInfo describes one build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build description; without ldflags the commit comes from
// the embedded vcs.revision, shortened to 7 characters
func Info() BuildInfo {
	c := commit
	if c == "" {
		c = vcsRevision()
	}
	return BuildInfo{Service: Service, Version: version, Commit: c, Date: date}
}

func vcsRevision() string {
	if bi, ok := readBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "none"
}

// String is the line printed by `dvf-pipeline version`
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}
