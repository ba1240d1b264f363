package metrics

import (
	"path/filepath"
	"testing"
	"time"

	perr "dvf/internal/platform/errors"
	kit "dvf/internal/platform/testkit"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	t.Parallel()
	m := New()
	m.AddRowsRead("2018", 3)
	m.AddRowsRead("2018", 2)
	m.AddRowsRead("2018", 0)
	m.AddRowsLocated("2018", 4)
	m.IncFileWritten("2018", "commune")
	m.IncFileWritten("2018", "commune")
	m.IncFileWritten("2018", "full")

	if got := testutil.ToFloat64(m.RowsRead.WithLabelValues("2018")); got != 5 {
		t.Fatalf("rows read = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.RowsLocated.WithLabelValues("2018")); got != 4 {
		t.Fatalf("rows located = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.FilesWritten.WithLabelValues("2018", "commune")); got != 2 {
		t.Fatalf("commune files = %v, want 2", got)
	}
}

func TestNilIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	kit.MustNotPanic(t, func() {
		m.AddRowsRead("2018", 1)
		m.AddRowsLocated("2018", 1)
		m.IncFileWritten("2018", "full")
		m.ObserveStage("read", time.Now())
		if err := m.WriteTextfile("ignored.prom"); err != nil {
			t.Fatalf("nil WriteTextfile: %v", err)
		}
	})
	if m.Registry() != nil {
		t.Fatalf("nil metrics should expose nil registry")
	}
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()
	m := New()
	m.AddRowsRead("2017", 7)
	m.ObserveStage("export", time.Now())

	path := filepath.Join(t.TempDir(), "dvf.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	out := kit.ReadFile(t, path)
	kit.MustContain(t, out, `dvf_rows_read_total{vintage="2017"} 7`)
	kit.MustContain(t, out, `dvf_stage_duration_seconds_count{stage="export"} 1`)
}

func TestWriteTextfile_BadDir(t *testing.T) {
	t.Parallel()
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dvf.prom"))
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("want IO error, got %v", err)
	}
}
