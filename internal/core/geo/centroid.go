// Package geo computes parcel centroids over go-geom geometries
package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Centroid returns the mean of all vertices of g. Polygon rings are closed
// (last vertex repeats the first) so each ring's last vertex is skipped.
// ok is false for empty or unsupported geometries.
func Centroid(g geom.T) (x, y float64, ok bool) {
	var a acc
	a.walk(g)
	if a.n == 0 {
		return 0, 0, false
	}
	return a.sx / float64(a.n), a.sy / float64(a.n), true
}

// Round6 rounds half up to 6 decimals, the precision of exported coordinates
func Round6(v float64) float64 {
	return math.Floor(v*1e6+0.5) / 1e6
}

type acc struct {
	sx, sy float64
	n      int
}

func (a *acc) walk(g geom.T) {
	switch t := g.(type) {
	case nil:
	case *geom.Polygon:
		off := 0
		a.rings(t.FlatCoords(), t.Stride(), t.Ends(), &off)
	case *geom.MultiPolygon:
		off := 0
		for _, ends := range t.Endss() {
			a.rings(t.FlatCoords(), t.Stride(), ends, &off)
		}
	case *geom.GeometryCollection:
		for _, c := range t.Geoms() {
			a.walk(c)
		}
	default:
		// points and line strings: every vertex counts
		a.add(g.FlatCoords(), g.Stride())
	}
}

// rings adds each ring in flat[*off:end] minus its closing vertex
func (a *acc) rings(flat []float64, stride int, ends []int, off *int) {
	for _, end := range ends {
		if end-stride > *off {
			a.add(flat[*off:end-stride], stride)
		}
		*off = end
	}
}

func (a *acc) add(flat []float64, stride int) {
	if stride < 2 {
		return
	}
	for i := 0; i+1 < len(flat); i += stride {
		a.sx += flat[i]
		a.sy += flat[i+1]
		a.n++
	}
}
