// Package pg opens the pgx pool behind the vintage ledger
package pg

import (
	"context"
	"strconv"
	"time"

	perr "dvf/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes the ledger pool
type Config struct {
	URL      string
	AppName  string // application_name in pg_stat_activity
	MaxConns int32

	// StatementTimeout is set server-side on every connection; 0 leaves the server default
	StatementTimeout time.Duration

	// Tracer, when set, sees every statement; SlowMs flags the slow ones
	Tracer QueryTracer
	SlowMs int
}

// PG is the pool plus the tracing knobs the sql adapter reads
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// poolConfig turns cfg into a pgxpool config without dialling
func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "postgres dsn")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	rp := pc.ConnConfig.RuntimeParams
	if cfg.AppName != "" {
		rp["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		rp["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return pc, nil
}

// Open builds the pool; it connects lazily, so callers ping before use
func Open(ctx context.Context, cfg Config) (*PG, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "postgres pool")
	}
	return &PG{Pool: pool, Tracer: cfg.Tracer, SlowMs: cfg.SlowMs}, nil
}

// Close releases the pool; nil-safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
