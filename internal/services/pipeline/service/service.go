// Package service provides the DVF pipeline driver
package service

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"dvf/internal/core/dvf"
	"dvf/internal/core/group"
	"dvf/internal/modkit/repokit"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/logger"
	"dvf/internal/platform/metrics"
	"dvf/internal/services/pipeline/domain"
	"dvf/internal/services/pipeline/guardrails"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration options for the pipeline service
type Config struct {
	// Workers bounds in-flight per-group tasks within a stage; <=0 -> 8
	Workers int

	// DistDir is the output root
	DistDir string

	// SinkChunk is the number of rows per sink insert; <=0 -> 50000
	SinkChunk int

	// MetricsFile, when set, receives the run metrics in textfile format
	MetricsFile string

	Timeouts guardrails.Timeouts
}

// Service implements the pipeline driver
type Service struct {
	Archives domain.ArchiveOpener
	Norm     domain.Normalizer
	Geo      domain.GeometryProvider
	Export   domain.Exporter
	Cfg      Config

	// Optional run ledger; nil disables it
	DB     repokit.TxRunner
	Ledger repokit.Binder[domain.LedgerRepo]

	// Optional row sink; nil disables it
	Sink domain.Sink

	// Optional metrics; nil disables them
	Metrics *metrics.Metrics

	newRunID func() string
}

// New constructs the pipeline service
func New(
	archives domain.ArchiveOpener,
	norm domain.Normalizer,
	geo domain.GeometryProvider,
	export domain.Exporter,
	cfg Config,
) *Service {
	if archives == nil || norm == nil || geo == nil || export == nil {
		panic("pipeline.Service requires an archive opener, a normalizer, a geometry provider and an exporter")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.SinkChunk <= 0 {
		cfg.SinkChunk = 50000
	}
	return &Service{
		Archives: archives, Norm: norm, Geo: geo, Export: export,
		Cfg:      cfg,
		newRunID: uuid.NewString,
	}
}

// WithLedger wires the Postgres run ledger
func (s *Service) WithLedger(db repokit.TxRunner, b repokit.Binder[domain.LedgerRepo]) *Service {
	s.DB, s.Ledger = db, b
	return s
}

// WithSink wires a row sink fed after the exports of each vintage
func (s *Service) WithSink(sink domain.Sink) *Service {
	s.Sink = sink
	return s
}

// WithMetrics wires run metrics
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.Metrics = m
	return s
}

// Run implements domain.RunnerPort. Vintages run newest first, strictly one
// after another; the first failure aborts the run
func (s *Service) Run(ctx context.Context, vintages []string) error {
	plan, err := PlanVintages(vintages)
	if err != nil {
		return err
	}

	runID := s.newRunID()
	ctx = logger.WithRun(ctx, runID, "")
	log := logger.C(ctx)
	log.Info().Strs("vintages", plan).Int("workers", s.Cfg.Workers).Msg("pipeline: run started")

	defer func() {
		if werr := s.Metrics.WriteTextfile(s.Cfg.MetricsFile); werr != nil {
			log.Warn().Err(werr).Str("path", s.Cfg.MetricsFile).Msg("pipeline: metrics textfile not written")
		}
	}()

	start := time.Now()
	for _, v := range plan {
		if err := s.runVintage(ctx, runID, v); err != nil {
			log.Error().Err(err).Str("vintage", v).Str("op", perr.OpOf(err)).Msg("pipeline: run aborted")
			return err
		}
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("pipeline: run finished")
	return nil
}

// vintageRun carries the counters of one vintage
type vintageRun struct {
	id      string
	vintage string
	located atomic.Int64
	files   atomic.Int64
	fin     domain.VintageFinish
}

func (s *Service) runVintage(ctx context.Context, runID, vintage string) (retErr error) {
	ctx = logger.WithRun(ctx, runID, vintage)
	vctx, cancel := guardrails.WithVintage(ctx, s.Cfg.Timeouts)
	defer cancel()

	vr := &vintageRun{id: runID, vintage: vintage}
	startWall := time.Now()

	s.ledger(ctx, "start", func(c context.Context, l domain.LedgerRepo) error {
		return l.StartVintage(c, runID, vintage)
	})
	defer func() {
		vr.fin.Status = domain.StatusOK
		if retErr != nil {
			vr.fin.Status = domain.StatusError
			vr.fin.ErrText = retErr.Error()
		}
		vr.fin.RowsLocated = int(vr.located.Load())
		vr.fin.FilesWritten = int(vr.files.Load())
		vr.fin.ElapsedMS = int(time.Since(startWall).Milliseconds())
		s.ledger(ctx, "finish", func(c context.Context, l domain.LedgerRepo) error {
			return l.FinishVintage(c, runID, vintage, vr.fin)
		})
	}()

	log := logger.C(ctx)

	// Read + normalize
	t := time.Now()
	rows, err := s.read(vctx, vr)
	vr.fin.ReadMS = msSince(t)
	s.Metrics.ObserveStage("read", t)
	if err != nil {
		return err
	}
	s.Metrics.AddRowsRead(vintage, len(rows))
	log.Info().Int("rows", len(rows)).Int64("bytes", vr.fin.BytesUncompressed).Msg("pipeline: archive read")

	// Enrich per commune
	t = time.Now()
	err = s.enrich(vctx, vr, rows)
	vr.fin.EnrichMS = msSince(t)
	s.Metrics.ObserveStage("enrich", t)
	if err != nil {
		return err
	}
	s.Metrics.AddRowsLocated(vintage, int(vr.located.Load()))
	log.Info().Int64("located", vr.located.Load()).Int("rows", len(rows)).Msg("pipeline: rows enriched")

	// Exports
	t = time.Now()
	err = s.export(vctx, vr, rows)
	vr.fin.ExportMS = msSince(t)
	if err != nil {
		return err
	}

	// Sink
	if s.Sink != nil {
		t = time.Now()
		err = s.sink(vctx, vr, rows)
		vr.fin.SinkMS = msSince(t)
		s.Metrics.ObserveStage("sink", t)
		if err != nil {
			return err
		}
		log.Info().Int("rows", len(rows)).Msg("pipeline: rows sunk")
		s.sinkCheck(vctx, vr, len(rows))
	}
	return nil
}

// read loads the whole vintage into memory, normalized
func (s *Service) read(ctx context.Context, vr *vintageRun) (rows []*dvf.Row, retErr error) {
	rd, err := s.Archives.Open(ctx, vr.vintage)
	if err != nil {
		return nil, perr.WithOp(err, "pipeline.read")
	}
	defer func() {
		if cerr := rd.Close(); cerr != nil && retErr == nil {
			retErr = perr.WithOp(perr.Wrap(cerr, perr.ErrorCodeIO, "close archive"), "pipeline.read")
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil, perr.WithOp(err, "pipeline.read")
		}
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perr.WithOp(err, "pipeline.read")
		}
		rows = append(rows, s.Norm.Normalize(rec))
	}
	vr.fin.RowsRead = len(rows)
	_, vr.fin.BytesUncompressed = rd.Stats()
	return rows, nil
}

// enrich fetches the parcels of every commune and locates its rows
func (s *Service) enrich(ctx context.Context, vr *vintageRun, rows []*dvf.Row) error {
	byCommune := group.By(rows, (*dvf.Row).CodeCommune)
	vr.fin.Communes = byCommune.Len()

	return s.fanOut(ctx, byCommune.Keys(), func(ctx context.Context, code string) error {
		if code == "" {
			return nil
		}
		parcels, err := s.Geo.Parcels(ctx, code)
		if err != nil {
			return perr.WithOp(err, "pipeline.enrich")
		}
		if parcels == nil {
			logger.C(ctx).Debug().Str("commune", code).Msg("pipeline: no parcel geometry")
			return nil
		}
		vr.located.Add(int64(Enrich(byCommune.Get(code), parcels)))
		return nil
	})
}

// export writes the commune, department and national files in that order
func (s *Service) export(ctx context.Context, vr *vintageRun, rows []*dvf.Row) error {
	log := logger.C(ctx)
	dist := s.Cfg.DistDir

	t := time.Now()
	byCommune := group.By(rows, (*dvf.Row).CodeCommune)
	err := s.fanOut(ctx, byCommune.Keys(), func(ctx context.Context, code string) error {
		if code == "" {
			return nil
		}
		rs := byCommune.Get(code)
		return s.write(ctx, vr, KindCommune, CommunePath(dist, vr.vintage, rs[0].CodeDepartement(), code), rs)
	})
	s.Metrics.ObserveStage("export_communes", t)
	if err != nil {
		return err
	}
	log.Info().Int("files", byCommune.Len()).Msg("pipeline: commune files written")

	t = time.Now()
	byDep := group.By(rows, (*dvf.Row).CodeDepartement)
	vr.fin.Departements = byDep.Len()
	err = s.fanOut(ctx, byDep.Keys(), func(ctx context.Context, dep string) error {
		if dep == "" {
			return nil
		}
		return s.write(ctx, vr, KindDepartement, DepartementPath(dist, vr.vintage, dep), byDep.Get(dep))
	})
	s.Metrics.ObserveStage("export_departements", t)
	if err != nil {
		return err
	}
	log.Info().Int("files", byDep.Len()).Msg("pipeline: departement files written")

	t = time.Now()
	err = s.write(ctx, vr, KindFull, FullPath(dist, vr.vintage), rows)
	s.Metrics.ObserveStage("export_full", t)
	if err != nil {
		return err
	}
	log.Info().Int("rows", len(rows)).Msg("pipeline: full file written")
	return nil
}

func (s *Service) write(ctx context.Context, vr *vintageRun, kind, path string, rows []*dvf.Row) error {
	if err := s.Export.Write(ctx, path, rows); err != nil {
		return perr.WithOp(err, "pipeline.export")
	}
	vr.files.Add(1)
	s.Metrics.IncFileWritten(vr.vintage, kind)
	return nil
}

// sink streams the vintage rows in chunks
func (s *Service) sink(ctx context.Context, vr *vintageRun, rows []*dvf.Row) error {
	chunk := s.Cfg.SinkChunk
	for i := 0; i < len(rows); i += chunk {
		end := min(i+chunk, len(rows))
		if err := s.Sink.Insert(ctx, vr.id, vr.vintage, rows[i:end]); err != nil {
			return perr.WithOp(err, "pipeline.sink")
		}
	}
	return nil
}

// sinkCheck compares the stored row count with what was sent, when the sink
// can count; a mismatch is logged, never fatal
func (s *Service) sinkCheck(ctx context.Context, vr *vintageRun, sent int) {
	c, ok := s.Sink.(domain.SinkCounter)
	if !ok {
		return
	}
	log := logger.C(ctx)
	n, err := c.Count(ctx, vr.id, vr.vintage)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("pipeline: sink count unavailable")
	case n != uint64(sent):
		log.Warn().Uint64("stored", n).Int("sent", sent).Msg("pipeline: sink row count mismatch")
	default:
		log.Debug().Uint64("stored", n).Msg("pipeline: sink row count checked")
	}
}

// fanOut runs fn for every key with at most Workers in flight and joins them
// all; the first error cancels the rest
func (s *Service) fanOut(ctx context.Context, keys []string, fn func(context.Context, string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Cfg.Workers, 1))
	for _, k := range keys {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = perr.PanicErrf("panic in group %q: %v", k, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, k)
		})
	}
	return g.Wait()
}

// ledger runs a best-effort ledger write; failures are logged only
func (s *Service) ledger(ctx context.Context, what string, fn func(context.Context, domain.LedgerRepo) error) {
	if s.DB == nil || s.Ledger == nil {
		return
	}
	// the vintage context may already be canceled when finishing
	lctx, cancel := guardrails.ForLedger(context.WithoutCancel(ctx), s.Cfg.Timeouts)
	defer cancel()
	err := repokit.WithTx(lctx, s.DB, s.Ledger, func(r domain.LedgerRepo) error { return fn(lctx, r) })
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("ledger", what).Msg("pipeline: ledger write failed")
	}
}

func msSince(t time.Time) int { return int(time.Since(t).Milliseconds()) }
