// Package repo provides the Postgres run ledger and the ClickHouse row sink
package repo

import (
	"context"

	"dvf/internal/modkit/repokit"
	perr "dvf/internal/platform/errors"
	"dvf/internal/services/pipeline/domain"
)

const ledgerDDL = `
	CREATE TABLE IF NOT EXISTS dvf_vintages (
		run_id             uuid        NOT NULL,
		vintage            text        NOT NULL,
		status             text        NOT NULL,
		started_at         timestamptz NOT NULL DEFAULT now(),
		finished_at        timestamptz,
		rows_read          integer     NOT NULL DEFAULT 0,
		rows_located       integer     NOT NULL DEFAULT 0,
		communes           integer     NOT NULL DEFAULT 0,
		departements       integer     NOT NULL DEFAULT 0,
		files_written      integer     NOT NULL DEFAULT 0,
		bytes_uncompressed bigint      NOT NULL DEFAULT 0,
		read_ms            integer     NOT NULL DEFAULT 0,
		enrich_ms          integer     NOT NULL DEFAULT 0,
		export_ms          integer     NOT NULL DEFAULT 0,
		sink_ms            integer     NOT NULL DEFAULT 0,
		elapsed_ms         integer     NOT NULL DEFAULT 0,
		error              text,
		PRIMARY KEY (run_id, vintage)
	)`

type (
	// PG is a Postgres binder for domain.LedgerRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.LedgerRepo
func NewPG() repokit.Binder[domain.LedgerRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.LedgerRepo { return &queries{q: q} }

// EnsureSchema creates the ledger table when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, ledgerDDL); err != nil {
		return perr.FromPostgresf(err, "ensure dvf_vintages")
	}
	return nil
}

// StartVintage marks a vintage of a run as running (idempotent)
func (r *queries) StartVintage(ctx context.Context, runID, vintage string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO dvf_vintages (run_id, vintage, status, started_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (run_id, vintage) DO UPDATE
		SET started_at = now(), status = EXCLUDED.status, error = null, finished_at = null
	`, runID, vintage, domain.StatusRunning)
	if err != nil {
		return perr.FromPostgresf(err, "start vintage %s", vintage)
	}
	return nil
}

// FinishVintage records the outcome of a vintage (idempotent)
func (r *queries) FinishVintage(ctx context.Context, runID, vintage string, fin domain.VintageFinish) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE dvf_vintages SET
			finished_at = now(),
			status = $3,
			rows_read = $4,
			rows_located = $5,
			communes = $6,
			departements = $7,
			files_written = $8,
			bytes_uncompressed = $9,
			read_ms = $10,
			enrich_ms = $11,
			export_ms = $12,
			sink_ms = $13,
			elapsed_ms = $14,
			error = NULLIF($15, '')
		WHERE run_id = $1 AND vintage = $2
	`,
		runID, vintage, fin.Status, fin.RowsRead, fin.RowsLocated, fin.Communes, fin.Departements,
		fin.FilesWritten, fin.BytesUncompressed, fin.ReadMS, fin.EnrichMS, fin.ExportMS, fin.SinkMS,
		fin.ElapsedMS, fin.ErrText,
	)
	if err != nil {
		return perr.FromPostgresf(err, "finish vintage %s", vintage)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("vintage %s of run %s was never started", vintage, runID)
	}
	return nil
}
