package ingest

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"dvf/internal/adapters/ingest/dvfarchive"
	"dvf/internal/core/dvf"
	perr "dvf/internal/platform/errors"
	kit "dvf/internal/platform/testkit"
)

func TestOpener_ReadsVintage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kit.WriteGzipFile(t, dvfarchive.Path(dir, "2017"),
		[]byte("Code departement|Code commune|Nature culture\n75|56|S\n"))

	rd, err := NewOpener(dir, "").Open(context.Background(), "2017")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = rd.Close() }()

	rec, err := rd.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	row := NewNormalizer(dvf.MapLookup{"S": "sols"}, nil).Normalize(rec)
	if got := row.CodeCommune(); got != "75056" {
		t.Fatalf("code commune = %q", got)
	}
	if got := row.Fields().NatureCulture; got != "sols" {
		t.Fatalf("nature culture = %q", got)
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestOpener_MissingArchive(t *testing.T) {
	t.Parallel()

	_, err := NewOpener(filepath.Join(t.TempDir(), "nope"), "").Open(context.Background(), "2014")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestOpener_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewOpener(t.TempDir(), "").Open(ctx, "2014"); err == nil {
		t.Fatal("expected an error on a canceled context")
	}
}
