package ch

import (
	"os"
	"runtime"

	"dvf/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type product = struct{ Name, Version string }

// clientInfo tags every query in system.query_log with the build, the role
// (usually "sink") and the host, so sink inserts can be traced to a run host
func clientInfo(role, tag string) clickhouse.ClientInfo {
	bi := version.Info()
	if tag == "" {
		tag = bi.Service
	}
	if role == "" {
		role = "pipeline"
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return clickhouse.ClientInfo{Products: []product{
		{Name: tag, Version: bi.Version},
		{Name: "role", Version: role},
		{Name: "commit", Version: bi.Commit},
		{Name: "go", Version: runtime.Version()},
		{Name: "host", Version: host},
	}}
}
