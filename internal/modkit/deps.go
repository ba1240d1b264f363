// Package modkit provides module wiring and core deps
package modkit

import (
	"dvf/internal/modkit/repokit"
	"dvf/internal/platform/logger"
	"dvf/internal/platform/metrics"
	"dvf/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	// Log is the module's logger; nil means logger.Named(module name)
	Log *logger.Logger

	// optional backends, nil when disabled
	PG repokit.TxRunner
	CH store.Clickhouse

	// optional run metrics, nil when disabled
	Metrics *metrics.Metrics
}

// Logger returns Log, or the named root child when unset
func (d Deps) Logger(module string) *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Named(module)
}

// FromStore fills the backend seams from an opened store
func (d Deps) FromStore(st *store.Store) Deps {
	if st != nil {
		d.PG, d.CH = st.PG, st.CH
	}
	return d
}
