// Package cultures provides the crop code label tables used by the normalizer.
// Defaults are embedded; an operator file with the same shape adds or replaces entries.
package cultures

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"strings"

	"dvf/internal/core/dvf"
	perr "dvf/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed cultures.yaml
var defaultYAML []byte

// Tables holds both label lookups
type Tables struct {
	Cultures  dvf.MapLookup `yaml:"cultures"`
	Speciales dvf.MapLookup `yaml:"speciales"`
}

// Parse decodes a YAML document with cultures and speciales maps
func Parse(b []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Tables{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "decode cultures yaml")
	}
	t.Cultures = clean(t.Cultures)
	t.Speciales = clean(t.Speciales)
	return t, nil
}

// Default returns the embedded tables
func Default() (Tables, error) {
	t, err := Parse(defaultYAML)
	if err != nil {
		return Tables{}, perr.WithOp(err, "cultures.default")
	}
	return t, nil
}

// Load returns the embedded tables overlaid with the entries of the file at path.
// An empty path returns the defaults.
func Load(path string) (Tables, error) {
	base, err := Default()
	if err != nil || path == "" {
		return base, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Tables{}, perr.WithOp(perr.NotFoundf("cultures file %s not found", path), "cultures.load")
		}
		return Tables{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "read %s", path), "cultures.load")
	}
	over, err := Parse(b)
	if err != nil {
		return Tables{}, perr.WithOp(err, "cultures.load")
	}
	for k, v := range over.Cultures {
		base.Cultures[k] = v
	}
	for k, v := range over.Speciales {
		base.Speciales[k] = v
	}
	return base, nil
}

// clean trims codes and labels and never returns nil
func clean(m dvf.MapLookup) dvf.MapLookup {
	out := make(dvf.MapLookup, len(m))
	for k, v := range m {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}
