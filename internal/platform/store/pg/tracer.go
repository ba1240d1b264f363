package pg

import (
	"context"
	"strings"
	"time"

	"dvf/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one ledger statement round-trip
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer sees every statement the sql adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements through root with component=pg. The child is forced
// to debug so SERVICE_PGSQL_LOG_SQL works whatever LOG_LEVEL says
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (lt logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	lvl := zerolog.InfoLevel
	if ev.Slow {
		lvl = zerolog.WarnLevel
	}
	lt.log.WithLevel(lvl).
		Err(ev.Err).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/float64(time.Millisecond/time.Microsecond)).
		Bool("slow", ev.Slow).
		Msg("pg query")
}

// compact puts a statement on one line
func compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }
