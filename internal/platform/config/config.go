// Package config reads pipeline settings from the environment, optionally
// seeded from a dotenv file
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dvf/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("DVF_PIPELINE_")
type Conf struct{ prefix string }

// New creates a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf with p appended to the prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value and its full key
func (c Conf) lookup(k string) (string, string) {
	full := c.key(k)
	return strings.TrimSpace(os.Getenv(full)), full
}

// LoadDotenv loads KEY=VALUE files (".env" when none are given) into the env.
// Variables already set win; a missing file is skipped
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// MustString panics when the key is unset or blank
func (c Conf) MustString(key string) string {
	v, full := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", full).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	if v, _ := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayPath is MayString with filepath.Clean applied to non-empty results
func (c Conf) MayPath(key, def string) string {
	if v := c.MayString(key, def); v != "" {
		return filepath.Clean(v)
	}
	return ""
}

// parsed reads key through parse; blank gives def, a parse failure warns and gives def
func parsed[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, full := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", full).Str("value", s).Interface("default", def).Msg("unparseable env; using default")
		return def
	}
	return v
}

// MayInt returns the int value or def
func (c Conf) MayInt(key string, def int) int { return parsed(c, key, def, strconv.Atoi) }

// MayIntAtLeast is MayInt that also falls back to def below min
func (c Conf) MayIntAtLeast(key string, def, min int) int {
	v := c.MayInt(key, def)
	if v < min {
		logger.Get().Warn().Str("key", c.key(key)).Int("value", v).Int("min", min).Msg("below minimum; using default")
		return def
	}
	return v
}

// MayBool returns the bool value (strconv.ParseBool syntax) or def
func (c Conf) MayBool(key string, def bool) bool { return parsed(c, key, def, strconv.ParseBool) }

// MayDuration returns the duration value (250ms, 2s, 1h) or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma-separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	s, _ := c.lookup(key)
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
