package main

import (
	"os"

	"dvf/internal/platform/config"
	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/logger"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		envFile  string
		logLevel string
	)
	root := &cobra.Command{
		Use:   "dvf-pipeline",
		Short: "Normalize, geolocate and republish the DVF real-estate archives",
		Long: `dvf-pipeline reads <data-dir>/valeursfoncieres-<vintage>.txt.gz for every
vintage, normalizes each transaction, adds the centroid of its cadastral parcel
and writes <dist-dir>/<vintage>/{communes/<dep>/<commune>.csv,
departements/<dep>.csv.gz, full.csv.gz}.

Configuration comes from the environment (DVF_PIPELINE_*, DVF_*, SERVICE_PGSQL_*,
SERVICE_CLICKHOUSE_*, LOG_*), optionally loaded from a .env file; flags win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotenv(envFile); err != nil {
				return perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "load env file"), "env-file")
			}
			// the root logger reads LOG_* once, so flags land in the env first
			if cmd.Flags().Changed("log-level") {
				_ = os.Setenv("LOG_LEVEL", logLevel)
			}
			logger.Init(logger.FromEnv())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration (missing file is ignored)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}
