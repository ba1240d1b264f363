// Command dvf-pipeline republishes the DVF archives per commune, per
// department and nationally, enriched with parcel centroids
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	perr "dvf/internal/platform/errors"
	"dvf/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// execute runs the CLI and maps the outcome to a process exit status
func execute(ctx context.Context, args []string, out io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).
			Str("code", perr.CodeOf(err).String()).
			Str("op", perr.OpOf(err)).
			Msg("dvf-pipeline failed")
		return max(perr.ExitStatus(err), 1)
	}
	return 0
}
