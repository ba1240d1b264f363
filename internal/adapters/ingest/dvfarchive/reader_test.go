package dvfarchive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"dvf/internal/core/dvf"
	perr "dvf/internal/platform/errors"
	kit "dvf/internal/platform/testkit"
)

const sample = "Date mutation|Nature mutation|Valeur fonciere|Commune|Code departement|Code commune\n" +
	"03/01/2018|Vente|1234,56|PARIS 01|75|101\n" +
	"04/01/2018|Vente||PARIS 01|75|101\n"

func writeArchive(t *testing.T, vintage string, body []byte) string {
	t.Helper()
	dir := t.TempDir()
	kit.WriteGzipFile(t, Path(dir, vintage), body)
	return dir
}

func readAll(t *testing.T, rd *Reader) ([]dvf.RawRecord, error) {
	t.Helper()
	var out []dvf.RawRecord
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()
	if got := Path("data", "2018"); got != filepath.Join("data", "valeursfoncieres-2018.txt.gz") {
		t.Fatalf("Path = %q", got)
	}
}

func TestOpen_ReadsRecords(t *testing.T) {
	t.Parallel()

	rd, err := Open(writeArchive(t, "2018", []byte(sample)), "2018", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rd.Close() }()

	recs, err := readAll(t, rd)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].Get(dvf.ColValeurFonciere) != "1234,56" || recs[1].Get(dvf.ColValeurFonciere) != "" {
		t.Fatalf("unexpected values: %v", recs)
	}
	if recs[0].Get(dvf.ColVoie) != "" {
		t.Fatalf("absent column must read as empty")
	}
	if n, b := rd.Stats(); n != 2 || b == 0 {
		t.Fatalf("stats = %d, %d", n, b)
	}
	// EOF is sticky
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestOpen_BOMAndSpacesInHeader(t *testing.T) {
	t.Parallel()

	body := "\ufeffCommune | Code commune\nLYON|123\n"
	rd, err := Open(writeArchive(t, "2017", []byte(body)), "2017", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rd.Close() }()

	if h := rd.Header(); h[0] != "Commune" || h[1] != "Code commune" {
		t.Fatalf("header = %q", h)
	}
	rec, err := rd.Next()
	if err != nil || rec.Get(dvf.ColCodeCommune) != "123" {
		t.Fatalf("rec = %v err = %v", rec, err)
	}
}

func TestOpen_Latin1(t *testing.T) {
	t.Parallel()

	body := append([]byte("Commune\n"), 'O', 'R', 'L', 0xC9, 'A', 'N', 'S', '\n')
	rd, err := Open(writeArchive(t, "2014", body), "2014", "latin1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rd.Close() }()
	rec, err := rd.Next()
	if err != nil || rec.Get(dvf.ColCommune) != "ORLÉANS" {
		t.Fatalf("rec = %q err = %v", rec.Get(dvf.ColCommune), err)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	plain := t.TempDir()
	if err := os.WriteFile(Path(plain, "2018"), []byte("not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		dir      string
		encoding string
		want     perr.ErrorCode
	}{
		{"missing archive", t.TempDir(), "", perr.ErrorCodeNotFound},
		{"not gzip", plain, "", perr.ErrorCodeIO},
		{"empty archive", writeArchive(t, "2018", nil), "", perr.ErrorCodeInvalidArgument},
		{"bad encoding", writeArchive(t, "2018", []byte(sample)), "ebcdic", perr.ErrorCodeInvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Open(c.dir, "2018", c.encoding)
			if !perr.IsCode(err, c.want) {
				t.Fatalf("want %s, got %v", c.want, err)
			}
			if perr.OpOf(err) != "dvfarchive.open" {
				t.Fatalf("op = %q", perr.OpOf(err))
			}
		})
	}
}

func TestNext_ShortAndLongRows(t *testing.T) {
	t.Parallel()

	body := "Valeur fonciere|Commune|Surface terrain\n200,00|LYON\n300,00|PARIS|120|extra\n"
	rd, err := Open(writeArchive(t, "2016", []byte(body)), "2016", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rd.Close() }()

	recs, err := readAll(t, rd)
	if err != nil {
		t.Fatalf("short or long rows should not fail: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d", len(recs))
	}
	short := recs[0]
	if short.Get("Commune") != "LYON" || short.Get("Surface terrain") != "" {
		t.Fatalf("short row = %v", short)
	}
	if _, ok := short["Surface terrain"]; ok {
		t.Fatalf("missing column should stay absent, got %v", short)
	}
	long := recs[1]
	if len(long) != 3 || long.Get("Surface terrain") != "120" {
		t.Fatalf("long row = %v", long)
	}
}

func TestTruncateUTF8(t *testing.T) {
	t.Parallel()
	if got := truncateUTF8("abc", 5); got != "abc" {
		t.Fatalf("short = %q", got)
	}
	if got := truncateUTF8("ééé", 3); got != "é..." {
		t.Fatalf("cut = %q", got)
	}
}
