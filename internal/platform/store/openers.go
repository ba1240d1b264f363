package store

import (
	"context"
	"time"

	perr "dvf/internal/platform/errors"
	chx "dvf/internal/platform/store/ch"
	"dvf/internal/platform/store/pg"
)

const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// openPG opens pg and wraps it with our sql adapter once the pool answers a ping
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:              cfg.PG.URL,
		AppName:          cfg.AppName,
		MaxConns:         cfg.PG.MaxConns,
		StatementTimeout: cfg.PG.StatementTimeout,
		Tracer:           tracer,
		SlowMs:           cfg.PG.SlowQueryMs,
	})
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 6
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx) // pool directly: no trace line for boot pings
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}

		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Int("of", attempts).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "postgres connect")
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, perr.Wrapf(lastErr, perr.ErrorCodeUnavailable, "postgres ping failed after %d attempts", attempts)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:         cfg.CH.URL,
		Role:        "sink",
		Tag:         cfg.AppName,
		PingTimeout: cfg.CH.PingTimeout,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
