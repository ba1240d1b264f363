// Package ingest adapts the source archive reader and the normalizer to the pipeline ports
package ingest

import (
	"context"

	"dvf/internal/adapters/ingest/dvfarchive"
	"dvf/internal/core/dvf"
	"dvf/internal/services/pipeline/domain"
)

// opener adapts dvfarchive.Open to domain.ArchiveOpener
type opener struct {
	dataDir  string
	encoding string
}

// NewOpener returns an opener reading <dataDir>/valeursfoncieres-<vintage>.txt.gz
func NewOpener(dataDir, encoding string) domain.ArchiveOpener {
	return opener{dataDir: dataDir, encoding: encoding}
}

func (o opener) Open(ctx context.Context, vintage string) (domain.ArchiveReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rd, err := dvfarchive.Open(o.dataDir, vintage, o.encoding)
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// NewNormalizer wraps the field normalizer with the crop lookups
func NewNormalizer(cultures, speciales dvf.Lookup) domain.Normalizer {
	return dvf.Normalizer{Cultures: cultures, Speciales: speciales}
}
