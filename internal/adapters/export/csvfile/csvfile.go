// Package csvfile writes row sets as comma separated files with a header line.
// Paths ending in .gz are gzip-compressed.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dvf/internal/core/dvf"
	perr "dvf/internal/platform/errors"

	"github.com/klauspost/compress/gzip"
)

// Writer exports rows to files; the zero value is ready to use
type Writer struct {
	// Level is the gzip level for .gz outputs; 0 means gzip.DefaultCompression
	Level int
}

// Write creates the parent directories and writes rows to path.
// Output goes to path.tmp first and is renamed on success, so a failed
// write never leaves a partial file under the final name.
func (w Writer) Write(ctx context.Context, path string, rows []*dvf.Row) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "create directory for %s", path), "csvfile.write")
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "create %s", tmp), "csvfile.write")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = w.encode(f, path, rows); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "write %s", path), "csvfile.write")
	}
	if err = f.Close(); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "close %s", tmp), "csvfile.write")
	}
	if err = os.Rename(tmp, path); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "rename %s", tmp), "csvfile.write")
	}
	return nil
}

// encode streams header and records into dst, through gzip when path ends in .gz
func (w Writer) encode(dst io.Writer, path string, rows []*dvf.Row) error {
	bw := bufio.NewWriterSize(dst, 256*1024)

	var out io.Writer = bw
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		level := w.Level
		if level == 0 {
			level = gzip.DefaultCompression
		}
		var err error
		if zw, err = gzip.NewWriterLevel(bw, level); err != nil {
			return err
		}
		out = zw
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(dvf.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return err
		}
	}
	return bw.Flush()
}
