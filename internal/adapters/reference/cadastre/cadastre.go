// Package cadastre reads per-commune parcel geometries from an Etalab cadastre mirror.
//
// Layout: <dir>/<departement>/<commune>/cadastre-<commune>-parcelles.json.gz,
// each file a gzip-compressed GeoJSON FeatureCollection keyed by parcel id.
package cadastre

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dvf/internal/core/dvf"
	perr "dvf/internal/platform/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Parcels maps parcel id to geometry for one commune
type Parcels map[string]geom.T

// Geometry returns the geometry of parcel id; empty ids and nil geometries miss
func (p Parcels) Geometry(id string) (geom.T, bool) {
	if id == "" {
		return nil, false
	}
	g, ok := p[id]
	return g, ok && g != nil
}

// Provider reads parcel files below Dir. Safe for concurrent use.
type Provider struct {
	Dir string
}

// New returns a Provider rooted at dir
func New(dir string) *Provider { return &Provider{Dir: dir} }

// Path returns the parcel file of a commune
func (p *Provider) Path(codeCommune string) string {
	return filepath.Join(p.Dir, dvf.CodeDepartement(codeCommune), codeCommune,
		fmt.Sprintf("cadastre-%s-parcelles.json.gz", codeCommune))
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string          `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties struct {
		ID string `json:"id"`
	} `json:"properties"`
}

// Parcels returns the geometries of a commune. A commune without a parcel file
// yields nil, nil; an unreadable or corrupt file is an error.
func (p *Provider) Parcels(ctx context.Context, codeCommune string) (Parcels, error) {
	if codeCommune == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.Path(codeCommune)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path), "cadastre.parcels")
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "gunzip %s", path), "cadastre.parcels")
	}
	defer func() { _ = zr.Close() }()

	var fc featureCollection
	if err := json.NewDecoder(zr).Decode(&fc); err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode %s", path), "cadastre.parcels")
	}

	out := make(Parcels, len(fc.Features))
	for i, ft := range fc.Features {
		id := ft.ID
		if id == "" {
			id = ft.Properties.ID
		}
		if id == "" || len(ft.Geometry) == 0 || string(ft.Geometry) == "null" {
			continue
		}
		var g geom.T
		if err := geojson.Unmarshal(ft.Geometry, &g); err != nil {
			return nil, perr.WithOp(
				perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode %s feature %d (%s)", path, i, id),
				"cadastre.parcels")
		}
		out[id] = g
	}
	return out, nil
}
