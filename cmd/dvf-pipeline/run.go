package main

import (
	"context"

	"dvf/internal/core/version"
	"dvf/internal/modkit"
	"dvf/internal/modkit/module"
	"dvf/internal/platform/config"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/logger"
	"dvf/internal/platform/metrics"
	"dvf/internal/platform/store"
	"dvf/internal/services/pipeline/domain"
	pipemod "dvf/internal/services/pipeline/module"

	"github.com/spf13/cobra"
)

// runFlags mirror the env options they override
type runFlags struct {
	vintages    []string
	dataDir     string
	distDir     string
	cadastreDir string
	encoding    string
	workers     int
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the given vintages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := pipemod.FromConfig(config.New())
			applyFlags(cmd, f, &opts)
			return runPipeline(cmd.Context(), opts)
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&f.vintages, "vintages", nil, "vintages to process, e.g. 2018,2017 (default DVF_PIPELINE_VINTAGES or 2018..2014)")
	fl.StringVar(&f.dataDir, "data-dir", "", "directory holding valeursfoncieres-<vintage>.txt.gz (default data)")
	fl.StringVar(&f.distDir, "dist-dir", "", "output root (default dist)")
	fl.StringVar(&f.cadastreDir, "cadastre-dir", "", "root of the cadastre parcel files (default cadastre)")
	fl.StringVar(&f.encoding, "encoding", "", "source encoding: utf-8, windows-1252, iso-8859-1, iso-8859-15")
	fl.IntVar(&f.workers, "workers", 0, "in-flight per-group tasks per stage (default 8)")
	return cmd
}

// applyFlags overrides env options with the flags the user actually set
func applyFlags(cmd *cobra.Command, f runFlags, o *pipemod.Options) {
	changed := cmd.Flags().Changed
	if changed("vintages") {
		o.Vintages = f.vintages
	}
	if changed("data-dir") {
		o.DataDir = f.dataDir
	}
	if changed("dist-dir") {
		o.DistDir = f.distDir
	}
	if changed("cadastre-dir") {
		o.CadastreDir = f.cadastreDir
	}
	if changed("encoding") {
		o.Encoding = f.encoding
	}
	if changed("workers") {
		o.Workers = f.workers
	}
}

func runPipeline(ctx context.Context, opts pipemod.Options) error {
	log := logger.Named("cli")
	if err := opts.Validate(); err != nil {
		return err
	}

	st, err := store.Open(ctx,
		store.FromEnv(version.Info().Service, opts.LedgerEnabled, opts.SinkEnabled),
		store.WithLogger(*log),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "store guard")
	}

	var m *metrics.Metrics
	if opts.MetricsFile != "" {
		m = metrics.New()
	}
	deps := modkit.Deps{Log: log, Metrics: m}.FromStore(st)

	pm, err := pipemod.New(ctx, deps, opts)
	if err != nil {
		return err
	}
	return module.MustPortsOf[domain.RunnerPort](pm).Run(ctx, opts.Vintages)
}
