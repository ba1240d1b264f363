// Package logger owns the process zerolog root and the run-scoped child
// loggers carried through context while a pipeline run is in flight
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level      string
	Format     string // console | json
	Service    string
	Writer     io.Writer // defaults to stderr; stdout is left to command output
	WithCaller bool
	NoColor    bool
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and NO_COLOR
func FromEnv() Options {
	return Options{
		Level:      env("LOG_LEVEL", "info"),
		Format:     strings.ToLower(env("LOG_FORMAT", "console")),
		Service:    env("LOG_SERVICE", "dvf-pipeline"),
		WithCaller: envFlag("LOG_CALLER", false),
		NoColor:    env("NO_COLOR", "") != "" || envFlag("LOG_NOCOLOR", false),
	}
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Get returns the root logger, initialising it from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opt.Writer
		if w == nil {
			w = os.Stderr
		}
		if opt.Format != "json" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: opt.NoColor}
		}

		zc := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
		if opt.Service != "" {
			zc = zc.Str("service", opt.Service)
		}
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			zc = zc.Str("go_version", bi.GoVersion)
		}
		if opt.WithCaller {
			zc = zc.Caller()
		}
		l := zc.Logger()
		root.Store(&l)
	})
}

// ParseLevel accepts zerolog level names plus "warning"; anything else is info
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey struct{}

// WithRun returns ctx carrying a child of C(ctx) tagged with run_id and vintage.
// Empty values are skipped; with both empty ctx is returned unchanged
func WithRun(ctx context.Context, runID, vintage string) context.Context {
	if runID == "" && vintage == "" {
		return ctx
	}
	b := C(ctx).With()
	if runID != "" {
		b = b.Str("run_id", runID)
	}
	if vintage != "" {
		b = b.Str("vintage", vintage)
	}
	l := b.Logger()
	return context.WithValue(ctx, ctxKey{}, &l)
}

// C returns the run logger stored in ctx, or the root
func C(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Get()
}

// Named returns a child of the root with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

// Nop returns a disabled logger
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}
