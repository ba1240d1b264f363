// Package metrics holds the prometheus collectors of a pipeline run.
// Collectors live on a private registry; a batch process has no scrape
// endpoint, so the registry is dumped to a node-exporter textfile at the end.
package metrics

import (
	"time"

	perr "dvf/internal/platform/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for a pipeline run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	RowsRead      *prometheus.CounterVec
	RowsLocated   *prometheus.CounterVec
	FilesWritten  *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all collectors registered on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		RowsRead: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dvf_rows_read_total",
			Help: "Source records read and normalized, per vintage",
		}, []string{"vintage"}),
		RowsLocated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dvf_rows_located_total",
			Help: "Rows that received parcel centroid coordinates, per vintage",
		}, []string{"vintage"}),
		FilesWritten: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dvf_files_written_total",
			Help: "Export files written, per vintage and kind (commune, departement, full)",
		}, []string{"vintage", "kind"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dvf_stage_duration_seconds",
			Help:    "Duration of a pipeline stage for one vintage",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// AddRowsRead records n normalized rows for vintage
func (m *Metrics) AddRowsRead(vintage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsRead.WithLabelValues(vintage).Add(float64(n))
}

// AddRowsLocated records n located rows for vintage
func (m *Metrics) AddRowsLocated(vintage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsLocated.WithLabelValues(vintage).Add(float64(n))
}

// IncFileWritten records one export file of the given kind
func (m *Metrics) IncFileWritten(vintage, kind string) {
	if m == nil {
		return
	}
	m.FilesWritten.WithLabelValues(vintage, kind).Inc()
}

// ObserveStage records the duration of a stage.
// Call with time.Now() at the start of the stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the registry in text exposition format to path (atomic rename)
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "write metrics textfile %s", path)
	}
	return nil
}
