package store

import (
	"time"

	"dvf/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// StatementTimeout bounds each ledger statement server-side
	StatementTimeout time.Duration

	// boot knobs
	ConnectRetries int           // default 6 (about 10s with capped exponential backoff)
	PingTimeout    time.Duration // default 5s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled     bool
	URL         string
	PingTimeout time.Duration
}

// FromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*; URLs are required only for enabled backends
func FromEnv(appName string, pgEnabled, chEnabled bool) Config {
	pgc := config.New().Prefix("SERVICE_PGSQL_")
	chc := config.New().Prefix("SERVICE_CLICKHOUSE_")

	cfg := Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:          pgEnabled,
			MaxConns:         int32(pgc.MayIntAtLeast("MAX_CONNS", 4, 1)),
			LogSQL:           pgc.MayBool("LOG_SQL", false),
			SlowQueryMs:      pgc.MayInt("SLOW_MS", 250),
			StatementTimeout: pgc.MayDuration("STATEMENT_TIMEOUT", 30*time.Second),
			ConnectRetries:   pgc.MayIntAtLeast("CONNECT_RETRIES", 6, 1),
			PingTimeout:      pgc.MayDuration("PING_TIMEOUT", 5*time.Second),
		},
		CH: CHConfig{
			Enabled:     chEnabled,
			PingTimeout: chc.MayDuration("PING_TIMEOUT", 5*time.Second),
		},
	}
	if pgEnabled {
		cfg.PG.URL = pgc.MustString("URL")
	}
	if chEnabled {
		cfg.CH.URL = chc.MustString("URL")
	}
	return cfg
}
