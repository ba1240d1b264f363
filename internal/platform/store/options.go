package store

import (
	"errors"

	"dvf/internal/platform/logger"
)

// Option adjusts a Store before its backends are dialled
type Option func(*Store) error

// WithLogger routes backend boot and SQL trace lines to log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithBackends installs already-open seams; Open then skips dialling them.
// Either may be nil, but not both
func WithBackends(pg TxRunner, ch Clickhouse) Option {
	return func(s *Store) error {
		if pg == nil && ch == nil {
			return errors.New("store: WithBackends needs at least one backend")
		}
		if pg != nil {
			s.PG = pg
		}
		if ch != nil {
			s.CH = ch
		}
		return nil
	}
}
