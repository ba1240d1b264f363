package dvfarchive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dvf/internal/core/dvf"
	"dvf/internal/core/textclean"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/logger"

	"github.com/klauspost/compress/gzip"
)

const sampleValueMax = 64 // max bytes per value in the sample log line

// Path returns the archive location of a vintage under dataDir
func Path(dataDir, vintage string) string {
	return filepath.Join(dataDir, fmt.Sprintf("valeursfoncieres-%s.txt.gz", vintage))
}

// Reader streams RawRecords from one archive
type Reader struct {
	r       io.ReadCloser
	gz      *gzip.Reader
	cr      *csv.Reader
	header  []string
	err     error
	records int
	sampled bool // logs exactly one sample record per archive
}

// Open opens the archive of vintage under dataDir.
// encoding is "" for UTF-8 or a single byte charset name (windows-1252, latin1).
func Open(dataDir, vintage, encoding string) (*Reader, error) {
	path := Path(dataDir, vintage)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.WithOp(perr.NotFoundf("source archive %s not found", path), "dvfarchive.open")
		}
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path), "dvfarchive.open")
	}
	rd, err := NewReader(f, encoding)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.CodeOf(err), "archive %s", path), "dvfarchive.open")
	}
	return rd, nil
}

// NewReader consumes the header line and returns a Reader positioned on the first record.
// r is closed by Close, or immediately when NewReader fails.
func NewReader(r io.ReadCloser, encoding string) (*Reader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		_ = r.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "gunzip")
	}
	src, err := textclean.NewReader(gz, encoding)
	if err != nil {
		_ = gz.Close()
		_ = r.Close()
		return nil, err
	}

	cr := csv.NewReader(src)
	cr.Comma = '|'
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	// short rows leave trailing optional columns absent; cells past the header are ignored
	cr.FieldsPerRecord = -1

	rd := &Reader{r: r, gz: gz, cr: cr}
	head, err := cr.Read()
	if err != nil {
		_ = rd.Close()
		if errors.Is(err, io.EOF) {
			return nil, perr.InvalidArgf("archive has no header line")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read header")
	}
	rd.header = make([]string, len(head))
	for i, h := range head {
		rd.header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return rd, nil
}

// Header returns the column names of the archive
func (rd *Reader) Header() []string { return rd.header }

// Next reads the next record; returns io.EOF when done
func (rd *Reader) Next() (dvf.RawRecord, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	rec, err := rd.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			rd.err = io.EOF
			return nil, io.EOF
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			rd.err = perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "malformed line %d", pe.StartLine)
		} else {
			rd.err = perr.Wrap(err, perr.ErrorCodeIO, "read archive")
		}
		return nil, rd.err
	}

	raw := make(dvf.RawRecord, len(rd.header))
	for i, col := range rd.header[:min(len(rd.header), len(rec))] {
		raw[col] = rec[i]
	}
	rd.records++

	if !rd.sampled {
		rd.sampled = true
		logger.Named("dvfarchive").Debug().
			Int("columns", len(rd.header)).
			Str("date", truncateUTF8(raw.Get(dvf.ColDateMutation), sampleValueMax)).
			Str("commune", truncateUTF8(raw.Get(dvf.ColCommune), sampleValueMax)).
			Str("valeur", truncateUTF8(raw.Get(dvf.ColValeurFonciere), sampleValueMax)).
			Msg("dvfarchive: sample record")
	}
	return raw, nil
}

// Close closes the gzip stream and the underlying file
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil {
			first = err
		}
	}
	if rd.r != nil {
		if err := rd.r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats returns the number of records read so far and the uncompressed bytes consumed
func (rd *Reader) Stats() (records int, bytes int64) {
	return rd.records, rd.cr.InputOffset()
}

// truncateUTF8 cuts s to at most max bytes on a rune boundary, appending an ellipsis when cut
func truncateUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	i := max
	for i > 0 && (s[i]&0xC0) == 0x80 {
		i--
	}
	return s[:i] + "..."
}
