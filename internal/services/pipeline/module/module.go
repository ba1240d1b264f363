// Package module wires the DVF pipeline from shared deps and options
package module

import (
	"context"

	"dvf/internal/adapters/export/csvfile"
	"dvf/internal/adapters/reference/cadastre"
	"dvf/internal/adapters/reference/cultures"
	"dvf/internal/modkit"
	"dvf/internal/modkit/repokit"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/metrics"
	"dvf/internal/services/pipeline/domain"
	"dvf/internal/services/pipeline/guardrails"
	"dvf/internal/services/pipeline/ingest"
	"dvf/internal/services/pipeline/repo"
	"dvf/internal/services/pipeline/service"
)

// Ports defines the pipeline module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the pipeline module
type Module struct {
	ports Ports
}

// New validates opts, loads the reference tables and wires the service.
// The ledger degrades to disabled when its schema cannot be ensured; the sink
// is part of the output set and fails the build instead
func New(ctx context.Context, deps modkit.Deps, opts Options) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := deps.Logger("pipeline")

	tables, err := loadCultures(opts.CulturesFile)
	if err != nil {
		return nil, err
	}

	svc := service.New(
		ingest.NewOpener(opts.DataDir, opts.Encoding),
		ingest.NewNormalizer(tables.Cultures, tables.Speciales),
		cadastre.New(opts.CadastreDir),
		csvfile.Writer{Level: opts.GzipLevel},
		service.Config{
			Workers:     opts.Workers,
			DistDir:     opts.DistDir,
			SinkChunk:   opts.SinkChunk,
			MetricsFile: opts.MetricsFile,
			Timeouts: guardrails.Timeouts{
				Vintage: opts.VintageTimeout,
				Ledger:  opts.LedgerTimeout,
			},
		},
	)

	if opts.LedgerEnabled {
		if deps.PG == nil {
			return nil, perr.WithField(perr.Validationf("ledger enabled without postgres"), "DVF_LEDGER_ENABLED")
		}
		// a best-effort ledger must never wait on row locks
		db := repokit.WithBeginHooks(deps.PG, repokit.SetLocal("lock_timeout", "2s"))
		if err := db.Tx(ctx, func(q repokit.Queryer) error { return repo.EnsureSchema(ctx, q) }); err != nil {
			log.Warn().Err(err).Msg("pipeline: ledger schema unavailable; ledger disabled")
		} else {
			svc.WithLedger(db, repo.NewPG())
		}
	}

	if opts.SinkEnabled {
		if deps.CH == nil {
			return nil, perr.WithField(perr.Validationf("sink enabled without clickhouse"), "DVF_SINK_ENABLED")
		}
		sink := repo.NewCH(deps.CH)
		if err := sink.EnsureTable(ctx); err != nil {
			return nil, err
		}
		svc.WithSink(sink)
	}

	m := deps.Metrics
	if m == nil && opts.MetricsFile != "" {
		m = metrics.New()
	}
	svc.WithMetrics(m)

	log.Debug().
		Str("data_dir", opts.DataDir).Str("dist_dir", opts.DistDir).Str("cadastre_dir", opts.CadastreDir).
		Int("workers", opts.Workers).Bool("ledger", svc.Ledger != nil).Bool("sink", svc.Sink != nil).
		Msg("pipeline: module wired")

	return &Module{ports: Ports{Runner: svc}}, nil
}

func loadCultures(path string) (cultures.Tables, error) {
	if path == "" {
		return cultures.Default()
	}
	return cultures.Load(path)
}

// Name returns the module name
func (m *Module) Name() string { return "pipeline" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Runner is a typed shortcut for Ports().Runner
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }
