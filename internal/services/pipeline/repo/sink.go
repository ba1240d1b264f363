package repo

import (
	"context"
	"strings"

	"dvf/internal/core/dvf"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/store"
	"dvf/internal/services/pipeline/domain"
)

// SinkTable is the ClickHouse table receiving exported rows
const SinkTable = "dvf_mutations"

// CH appends exported rows to ClickHouse
type CH struct{ db store.Clickhouse }

var (
	_ domain.Sink        = (*CH)(nil)
	_ domain.SinkCounter = (*CH)(nil)
)

// NewCH returns a ClickHouse sink; db must be non nil
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("repo.NewCH requires a ClickHouse client")
	}
	return &CH{db: db}
}

// sinkDDL has one String column per export column, prefixed by the run id and vintage
func sinkDDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + SinkTable + " (\n\trun_id String,\n\tvintage LowCardinality(String)")
	for _, c := range dvf.Columns {
		b.WriteString(",\n\t" + c + " String")
	}
	b.WriteString("\n) ENGINE = MergeTree\nORDER BY (vintage, code_departement, code_commune)")
	return b.String()
}

// EnsureTable creates the sink table when missing
func (c *CH) EnsureTable(ctx context.Context) error {
	return perr.WithOp(c.db.Exec(ctx, sinkDDL()), "sink.ensure")
}

// Insert implements domain.Sink
func (c *CH) Insert(ctx context.Context, runID, vintage string, rows []*dvf.Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, r := range rows {
		rec := r.Record()
		vals := make([]any, 0, len(rec)+2)
		vals = append(vals, runID, vintage)
		for _, v := range rec {
			vals = append(vals, v)
		}
		batch = append(batch, vals)
	}
	return perr.WithOp(c.db.Insert(ctx, SinkTable, batch), "sink.insert")
}

// Count returns the number of rows a run stored for a vintage
func (c *CH) Count(ctx context.Context, runID, vintage string) (uint64, error) {
	rs, err := c.db.Query(ctx, "SELECT count() FROM "+SinkTable+" WHERE run_id = ? AND vintage = ?", runID, vintage)
	if err != nil {
		return 0, perr.WithOp(err, "sink.count")
	}
	defer rs.Close()

	var n uint64
	if rs.Next() {
		if err := rs.Scan(&n); err != nil {
			return 0, perr.WithOp(perr.Wrap(err, perr.ErrorCodeDB, "scan count"), "sink.count")
		}
	}
	return n, perr.WithOp(rs.Err(), "sink.count")
}
