package module

import (
	"time"

	"dvf/internal/core/textclean"
	"dvf/internal/platform/config"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/validate"
	"dvf/internal/services/pipeline/service"
)

// Options holds configuration options for the pipeline
// flag tags name the CLI flag shown in validation messages
type Options struct {
	Vintages    []string `flag:"vintages" validate:"required,min=1,dive,vintage"`
	Workers     int      `flag:"workers" validate:"min=1,max=64"`
	DataDir     string   `flag:"data-dir" validate:"required"`
	DistDir     string   `flag:"dist-dir" validate:"required"`
	CadastreDir string   `flag:"cadastre-dir" validate:"required"`
	Encoding    string   `flag:"encoding"`

	CulturesFile string
	GzipLevel    int `validate:"min=-2,max=9"`
	SinkChunk    int `validate:"min=1"`
	MetricsFile  string

	VintageTimeout time.Duration `validate:"min=0"`
	LedgerTimeout  time.Duration `validate:"min=0"`

	LedgerEnabled bool
	SinkEnabled   bool
}

// FromConfig reads the pipeline options with the DVF_PIPELINE_ prefix plus
// the DVF_ toggles
func FromConfig(cfg config.Conf) Options {
	root := cfg.Prefix("DVF_")
	p := root.Prefix("PIPELINE_")
	return Options{
		Vintages:    p.MayCSV("VINTAGES", service.DefaultVintages),
		Workers:     p.MayIntAtLeast("WORKERS", 8, 1),
		DataDir:     p.MayPath("DATA_DIR", "data"),
		DistDir:     p.MayPath("DIST_DIR", "dist"),
		CadastreDir: p.MayPath("CADASTRE_DIR", "cadastre"),
		Encoding:    p.MayString("ENCODING", ""),

		CulturesFile: root.MayPath("CULTURES_FILE", ""),
		GzipLevel:    p.MayInt("GZIP_LEVEL", 0),
		SinkChunk:    p.MayIntAtLeast("SINK_CHUNK", 50000, 1),
		MetricsFile:  p.MayPath("METRICS_FILE", ""),

		VintageTimeout: p.MayDuration("VINTAGE_TIMEOUT", 0),
		LedgerTimeout:  p.MayDuration("LEDGER_TIMEOUT", 5*time.Second),

		LedgerEnabled: root.MayBool("LEDGER_ENABLED", false),
		SinkEnabled:   root.MayBool("SINK_ENABLED", false),
	}
}

// Validate checks the options before any work starts
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return err
	}
	if !textclean.ValidEncoding(o.Encoding) {
		return perr.WithField(perr.Validationf("encoding %q is not supported", o.Encoding), "encoding")
	}
	return nil
}
