package domain

import (
	"context"

	"dvf/internal/core/dvf"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context, vintages []string) error
}

// ArchiveReader streams the raw records of one source archive
type ArchiveReader interface {
	Next() (dvf.RawRecord, error)
	Close() error
	Stats() (records int, bytes int64) // zeros if not supported
}

// ArchiveOpener opens the source archive of a vintage
type ArchiveOpener interface {
	Open(ctx context.Context, vintage string) (ArchiveReader, error)
}

// Normalizer maps a raw record into a normalized row
type Normalizer interface {
	Normalize(rec dvf.RawRecord) *dvf.Row
}

// GeometryProvider returns the parcel geometries of a commune, nil when the
// commune has none
type GeometryProvider interface {
	Parcels(ctx context.Context, codeCommune string) (Parcels, error)
}

// Exporter writes a set of rows to path
type Exporter interface {
	Write(ctx context.Context, path string, rows []*dvf.Row) error
}

// LedgerRepo records the progress of each vintage of a run
type LedgerRepo interface {
	// StartVintage marks a vintage as running
	StartVintage(ctx context.Context, runID, vintage string) error

	// FinishVintage records the outcome of a vintage
	FinishVintage(ctx context.Context, runID, vintage string, fin VintageFinish) error
}

// Sink receives the exported rows of a vintage in chunks
type Sink interface {
	Insert(ctx context.Context, runID, vintage string, rows []*dvf.Row) error
}

// SinkCounter is implemented by sinks that can report what a run stored
type SinkCounter interface {
	Count(ctx context.Context, runID, vintage string) (uint64, error)
}
